package application

import (
	"context"

	"clubledger/application/dto"
	"clubledger/domain/events"
	"clubledger/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// LocalEventRegistrar registers in-process handlers for committed domain events
type LocalEventRegistrar interface {
	RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error)
}

// RegisterApplicationSubscriptions wires follow-up work and metrics to committed domain events
func RegisterApplicationSubscriptions(registrar LocalEventRegistrar, scheduler TaskScheduler) {
	registrar.RegisterLocalHandler(events.EventTypePaymentCompleted, func(ctx context.Context, event events.Event) error {
		completed, ok := event.(events.PaymentCompletedEvent)
		if !ok {
			return nil
		}

		if metrics := observability.GetMetrics(); metrics != nil {
			metrics.RecordPaymentCompleted(completed.PaymentType, completed.PaymentMethod, completed.AmountCents)
		}

		if err := scheduler.Schedule(ctx, dto.TaskPaymentReceipt, dto.PaymentReceiptPayload{PaymentID: completed.PaymentID}); err != nil {
			log.WithFields(log.Fields{
				"paymentId": completed.PaymentID,
				"error":     err,
			}).Error("Failed to schedule payment receipt")
			return err
		}
		return nil
	})

	registrar.RegisterLocalHandler(events.EventTypePaymentFailed, func(ctx context.Context, event events.Event) error {
		if metrics := observability.GetMetrics(); metrics != nil {
			metrics.RecordPaymentFailed("failed")
		}
		return nil
	})

	registrar.RegisterLocalHandler(events.EventTypePaymentCancelled, func(ctx context.Context, event events.Event) error {
		if metrics := observability.GetMetrics(); metrics != nil {
			metrics.RecordPaymentFailed("cancelled")
		}
		return nil
	})

	registrar.RegisterLocalHandler(events.EventTypeCreditChanged, func(ctx context.Context, event events.Event) error {
		changed, ok := event.(events.CreditChangedEvent)
		if !ok {
			return nil
		}
		if metrics := observability.GetMetrics(); metrics != nil {
			metrics.RecordCreditChange(string(changed.Kind))
		}
		return nil
	})
}
