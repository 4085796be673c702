package application

import (
	"context"
	"fmt"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/services"
	"clubledger/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// ExpirySweepWorker periodically moves memberships past their expiry date to expired
type ExpirySweepWorker struct {
	uowFactory UnitOfWorkFactory
	cfg        ServiceConfig
	clock      services.Clock
}

// NewExpirySweepWorker creates a new expiry sweep worker
func NewExpirySweepWorker(uowFactory UnitOfWorkFactory, cfg ServiceConfig) *ExpirySweepWorker {
	clock := cfg.Clock
	if clock == nil {
		clock = services.SystemClock{}
	}
	return &ExpirySweepWorker{
		uowFactory: uowFactory,
		cfg:        cfg,
		clock:      clock,
	}
}

// Start runs a sweep immediately and then every interval. The returned
// function stops the worker.
func (w *ExpirySweepWorker) Start(ctx context.Context, interval time.Duration) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("interval", interval).Info("Membership expiry sweep worker started")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		w.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				log.Info("Membership expiry sweep worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Membership expiry sweep worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

func (w *ExpirySweepWorker) runOnce(ctx context.Context) {
	expired, err := w.Sweep(ctx)
	if err != nil {
		log.WithError(err).Error("Membership expiry sweep failed")
		return
	}
	if len(expired) > 0 {
		log.WithField("expired", len(expired)).Info("Membership expiry sweep completed")
	}
}

// Sweep expires every active membership whose expiry date is before today
func (w *ExpirySweepWorker) Sweep(ctx context.Context) ([]*entities.Membership, error) {
	return expireMemberships(ctx, w.uowFactory, w.cfg, w.clock.Now())
}

func expireMemberships(ctx context.Context, uowFactory UnitOfWorkFactory, cfg ServiceConfig, today time.Time) ([]*entities.Membership, error) {
	expired, err := WithServices(ctx, uowFactory, cfg, func(s *Services) ([]*entities.Membership, error) {
		return s.Memberships.ExpireMemberships(ctx, today)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expire memberships: %w", err)
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordMembershipsExpired(len(expired))
	}
	return expired, nil
}
