package application

import (
	"context"
	"fmt"
	"strings"

	"clubledger/application/dto"
	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// PaymentGatewayHandlerImpl implements the PaymentGatewayHandler interface
type PaymentGatewayHandlerImpl struct {
	uowFactory UnitOfWorkFactory
	cfg        ServiceConfig
}

// NewPaymentGatewayHandler creates a new payment gateway callback handler
func NewPaymentGatewayHandler(uowFactory UnitOfWorkFactory, cfg ServiceConfig) PaymentGatewayHandler {
	return &PaymentGatewayHandlerImpl{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

// HandleCallback applies a gateway outcome to the payment it names. Outcomes
// that can never succeed on redelivery are logged and swallowed so the
// message is acknowledged; anything else is returned for a retry.
func (h *PaymentGatewayHandlerImpl) HandleCallback(ctx context.Context, callback dto.PaymentGatewayCallbackDTO) error {
	fields := log.Fields{
		"paymentId":     callback.PaymentID,
		"status":        callback.Status,
		"transactionId": callback.TransactionID,
	}
	log.WithFields(fields).Info("Handling payment gateway callback")

	var err error
	switch strings.ToLower(callback.Status) {
	case dto.GatewayStatusSucceeded, "completed", "paid":
		err = h.confirm(ctx, callback)
	case dto.GatewayStatusFailed:
		_, err = WithServices(ctx, h.uowFactory, h.cfg, func(s *Services) (*entities.Payment, error) {
			return s.Reconciliation.Fail(ctx, callback.PaymentID, callback.Reason)
		})
	case dto.GatewayStatusCancelled:
		_, err = WithServices(ctx, h.uowFactory, h.cfg, func(s *Services) (*entities.Payment, error) {
			return s.Reconciliation.Cancel(ctx, callback.PaymentID)
		})
	default:
		log.WithFields(fields).Warn("Ignoring payment gateway callback with unknown status")
		return nil
	}

	if err == nil {
		return nil
	}

	if errs.IsAlreadyFinalized(err) || errs.IsNotFound(err) || errs.IsValidation(err) || errs.IsInvariantViolation(err) {
		fields["error"] = err
		log.WithFields(fields).Warn("Payment gateway callback rejected")
		return nil
	}

	return fmt.Errorf("failed to apply payment gateway callback for payment %d: %w", callback.PaymentID, err)
}

func (h *PaymentGatewayHandlerImpl) confirm(ctx context.Context, callback dto.PaymentGatewayCallbackDTO) error {
	processor := callback.Processor
	if processor == "" {
		processor = entities.ProcessorSumUp
	}

	result, err := WithServices(ctx, h.uowFactory, h.cfg, func(s *Services) (*interfaces.ReconciliationResult, error) {
		return s.Reconciliation.Confirm(ctx, callback.PaymentID, callback.TransactionID, processor)
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"paymentId":      result.Payment.ID,
		"userId":         result.Payment.UserID,
		"paymentType":    result.Payment.Type,
		"alreadyApplied": result.AlreadyApplied,
	}).Info("Payment confirmed by gateway")
	return nil
}
