package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clubledger/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
)

// MetricsProvider manages OpenTelemetry metrics for the ledger service
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	paymentsCompletedCounter     metric.Int64Counter
	paymentsFailedCounter        metric.Int64Counter
	paymentAmountHist            metric.Int64Histogram
	creditChangesCounter         metric.Int64Counter
	membershipsExpiredCounter    metric.Int64Counter
	natsMessagesReceivedCounter  metric.Int64Counter
	natsMessagesPublishedCounter metric.Int64Counter
	tasksProcessedCounter        metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry meter provider and instruments
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var (
		exporter sdkmetric.Exporter
		err      error
	)
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
			otlpmetricgrpc.WithDialOption(grpc.WithUserAgent(mp.config.OTelServiceName)),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter(MetricPrefix)

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	log.Info("Metrics provider initialized")
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	var err error

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.paymentsCompletedCounter, PaymentsCompletedTotal, "Payments confirmed with their ledger effect applied"},
		{&mp.paymentsFailedCounter, PaymentsFailedTotal, "Payments marked failed or cancelled"},
		{&mp.creditChangesCounter, CreditChangesTotal, "Credit ledger rows written"},
		{&mp.membershipsExpiredCounter, MembershipsExpiredTotal, "Memberships moved to expired by the sweep"},
		{&mp.natsMessagesReceivedCounter, NATSMessagesReceivedTotal, "NATS messages received"},
		{&mp.natsMessagesPublishedCounter, NATSMessagesPublishedTotal, "NATS messages published"},
		{&mp.tasksProcessedCounter, TasksProcessedTotal, "Background tasks processed"},
	}
	for _, c := range counters {
		*c.target, err = mp.meter.Int64Counter(c.name, metric.WithDescription(c.description), metric.WithUnit("1"))
		if err != nil {
			return fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
	}

	mp.paymentAmountHist, err = mp.meter.Int64Histogram(
		PaymentAmountCents,
		metric.WithDescription("Amount of completed payments in minor currency units"),
		metric.WithExplicitBucketBoundaries(500, 1000, 2500, 5000, 10000, 20000, 50000),
	)
	if err != nil {
		return fmt.Errorf("failed to create payment amount histogram: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordPaymentCompleted records a confirmed payment
func (mp *MetricsProvider) RecordPaymentCompleted(paymentType, method string, amountCents int64) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelType, paymentType),
		attribute.String(LabelMethod, method),
	)
	mp.paymentsCompletedCounter.Add(context.Background(), 1, attrs)
	mp.paymentAmountHist.Record(context.Background(), amountCents, attrs)
}

// RecordPaymentFailed records a failed or cancelled payment
func (mp *MetricsProvider) RecordPaymentFailed(outcome string) {
	if !mp.isEnabled() {
		return
	}

	mp.paymentsFailedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelOutcome, outcome)),
	)
}

// RecordCreditChange records a credit ledger row
func (mp *MetricsProvider) RecordCreditChange(kind string) {
	if !mp.isEnabled() {
		return
	}

	mp.creditChangesCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelKind, kind)),
	)
}

// RecordMembershipsExpired records memberships moved to expired
func (mp *MetricsProvider) RecordMembershipsExpired(count int) {
	if !mp.isEnabled() || count == 0 {
		return
	}

	mp.membershipsExpiredCounter.Add(context.Background(), int64(count))
}

// RecordNATSMessageReceived records a NATS message being received
func (mp *MetricsProvider) RecordNATSMessageReceived(subject string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesReceivedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, subject)),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// RecordTaskProcessed records a background task run
func (mp *MetricsProvider) RecordTaskProcessed(task, outcome string) {
	if !mp.isEnabled() {
		return
	}

	mp.tasksProcessedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelTask, task),
			attribute.String(LabelOutcome, outcome),
		),
	)
}

func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.enabled
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider, nil before initialization
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
