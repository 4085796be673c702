package cmd

import (
	"context"
	"fmt"
	"time"

	"clubledger/application"
	"clubledger/config"
	"clubledger/database"
	"clubledger/infrastructure"
	"clubledger/infrastructure/observability"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ServiceConfigFrom derives the domain service settings from cfg
func ServiceConfigFrom(cfg *config.Config) application.ServiceConfig {
	return application.ServiceConfig{
		Currency:          cfg.Currency,
		RenewalWindowDays: cfg.RenewalWindowDays,
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting clubledger...")

	// Load configuration
	cfg := config.Get()

	// Initialize metrics
	log.Info("Initializing metrics...")
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Error("Error shutting down metrics")
		}
	}()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("Closing database connection...")
		db.Close()
	}()
	log.Info("Database connection established successfully")

	// Initialize NATS
	log.WithField("servers", cfg.NATSServers).Info("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer func() {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}()

	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := eventPublisher.EnsureLedgerEventStream(natsClient); err != nil {
		return fmt.Errorf("failed to ensure ledger event stream: %w", err)
	}
	if err := infrastructure.EnsureTaskStream(natsClient); err != nil {
		return fmt.Errorf("failed to ensure task stream: %w", err)
	}
	if err := natsClient.EnsureGatewayStream(); err != nil {
		return fmt.Errorf("failed to ensure payment gateway stream: %w", err)
	}
	log.Info("NATS streams ready")

	// Initialize unit of work factory
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)
	serviceCfg := ServiceConfigFrom(cfg)

	// Background tasks and follow-up work for committed events
	taskQueue := infrastructure.NewNATSTaskQueue(natsClient)
	application.RegisterApplicationSubscriptions(eventPublisher, taskQueue)

	taskHandler := application.NewTaskHandler(uowFactory, serviceCfg, infrastructure.NewNATSNotifier(natsClient), cfg.LowCreditThreshold)
	if err := taskQueue.StartConsumer(ctx, natsClient, taskHandler); err != nil {
		return fmt.Errorf("failed to start task consumer: %w", err)
	}

	gatewayListener := infrastructure.NewPaymentGatewayListener(application.NewPaymentGatewayHandler(uowFactory, serviceCfg))
	if err := gatewayListener.Start(ctx, natsClient); err != nil {
		return fmt.Errorf("failed to start payment gateway listener: %w", err)
	}
	log.Info("Consumers started")

	sweepWorker := application.NewExpirySweepWorker(uowFactory, serviceCfg)
	stopSweep := sweepWorker.Start(ctx, cfg.ExpirySweepInterval)
	defer stopSweep()

	reminderWorker := application.NewLowCreditsReminderWorker(taskQueue, cfg.LowCreditThreshold)
	stopReminders := reminderWorker.Start(ctx)
	defer stopReminders()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		metricsServer, err := observability.NewMetricsServer(cfg.MetricsAddr, observability.NewPoolCollector(db.Pool))
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		g.Go(func() error {
			return metricsServer.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	log.WithField("environment", cfg.Environment).Info("clubledger is running")

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Shutting down clubledger...")
	return nil
}
