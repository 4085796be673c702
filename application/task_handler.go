package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clubledger/application/dto"
	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/services"
	"clubledger/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// TaskHandlerImpl executes queued background tasks
type TaskHandlerImpl struct {
	uowFactory         UnitOfWorkFactory
	cfg                ServiceConfig
	notifier           Notifier
	clock              services.Clock
	lowCreditThreshold int64
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(uowFactory UnitOfWorkFactory, cfg ServiceConfig, notifier Notifier, lowCreditThreshold int64) *TaskHandlerImpl {
	clock := cfg.Clock
	if clock == nil {
		clock = services.SystemClock{}
	}
	return &TaskHandlerImpl{
		uowFactory:         uowFactory,
		cfg:                cfg,
		notifier:           notifier,
		clock:              clock,
		lowCreditThreshold: lowCreditThreshold,
	}
}

// HandleTask dispatches task by name. Unknown tasks are dropped.
func (h *TaskHandlerImpl) HandleTask(ctx context.Context, task dto.TaskDTO) error {
	var err error
	switch task.Name {
	case dto.TaskExpireMemberships:
		err = h.handleExpireMemberships(ctx, task.Payload)
	case dto.TaskLowCreditsReminder:
		err = h.handleLowCreditsReminder(ctx, task.Payload)
	case dto.TaskPaymentReceipt:
		err = h.handlePaymentReceipt(ctx, task.Payload)
	default:
		log.WithFields(log.Fields{
			"taskId":   task.ID,
			"taskName": task.Name,
		}).Warn("Dropping unknown task")
		return nil
	}

	outcome := observability.OutcomeSuccess
	if err != nil {
		outcome = observability.OutcomeError
	}
	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordTaskProcessed(task.Name, outcome)
	}

	if errs.IsNotFound(err) || errs.IsValidation(err) {
		log.WithFields(log.Fields{
			"taskId":   task.ID,
			"taskName": task.Name,
			"error":    err,
		}).Warn("Dropping task that cannot succeed")
		return nil
	}
	if err != nil {
		return fmt.Errorf("task %s (%s) failed: %w", task.Name, task.ID, err)
	}
	return nil
}

func (h *TaskHandlerImpl) handleExpireMemberships(ctx context.Context, raw json.RawMessage) error {
	var payload dto.ExpireMembershipsPayload
	if err := decodePayload(raw, &payload); err != nil {
		return err
	}

	today := payload.Today
	if today.IsZero() {
		today = h.clock.Now()
	}

	expired, err := expireMemberships(ctx, h.uowFactory, h.cfg, today)
	if err != nil {
		return err
	}

	log.WithField("expired", len(expired)).Info("Expired memberships from task")
	return nil
}

func (h *TaskHandlerImpl) handleLowCreditsReminder(ctx context.Context, raw json.RawMessage) error {
	payload := dto.LowCreditsReminderPayload{Threshold: h.lowCreditThreshold}
	if err := decodePayload(raw, &payload); err != nil {
		return err
	}

	standings, err := WithServices(ctx, h.uowFactory, h.cfg, func(s *Services) ([]*entities.CreditStanding, error) {
		return s.Credits.LowStanding(ctx, payload.Threshold, h.clock.Now())
	})
	if err != nil {
		return err
	}

	var failed int
	for _, standing := range standings {
		notification := dto.NotificationDTO{
			Kind:    dto.NotificationLowCredits,
			UserID:  standing.UserID,
			Email:   standing.Email,
			Name:    standing.Name,
			Subject: "Your shoot credits are running low",
			Fields: map[string]string{
				"allowance": fmt.Sprintf("%d", standing.Allowance),
				"balance":   fmt.Sprintf("%d", standing.Balance),
				"remaining": fmt.Sprintf("%d", standing.Total()),
			},
		}
		if err := h.notifier.Notify(ctx, notification); err != nil {
			failed++
			log.WithFields(log.Fields{
				"userId": standing.UserID,
				"error":  err,
			}).Error("Failed to send low credits reminder")
		}
	}

	log.WithFields(log.Fields{
		"threshold": payload.Threshold,
		"reminded":  len(standings) - failed,
		"failed":    failed,
	}).Info("Low credits reminders sent")
	return nil
}

type receiptData struct {
	payment *entities.Payment
	user    *entities.User
}

func (h *TaskHandlerImpl) handlePaymentReceipt(ctx context.Context, raw json.RawMessage) error {
	var payload dto.PaymentReceiptPayload
	if err := decodePayload(raw, &payload); err != nil {
		return err
	}

	data, err := WithServices(ctx, h.uowFactory, h.cfg, func(s *Services) (*receiptData, error) {
		payment, err := s.Payments.GetPayment(ctx, payload.PaymentID)
		if err != nil {
			return nil, err
		}
		user, err := s.Users.GetUser(ctx, payment.UserID)
		if err != nil {
			return nil, err
		}
		return &receiptData{payment: payment, user: user}, nil
	})
	if err != nil {
		return err
	}

	payment := data.payment
	if payment.Status != entities.PaymentStatusCompleted {
		log.WithFields(log.Fields{
			"paymentId": payment.ID,
			"status":    payment.Status,
		}).Warn("Skipping receipt for payment that is not completed")
		return nil
	}

	fields := map[string]string{
		"payment_id":  fmt.Sprintf("%d", payment.ID),
		"description": payment.Description,
		"amount":      FormatAmount(payment.AmountCents, payment.Currency),
		"method":      string(payment.Method),
		"date":        payment.UpdatedAt.UTC().Format(time.DateOnly),
	}
	if payment.ExternalTransactionID != nil {
		fields["transaction_id"] = *payment.ExternalTransactionID
	}

	return h.notifier.Notify(ctx, dto.NotificationDTO{
		Kind:    dto.NotificationPaymentReceipt,
		UserID:  data.user.ID,
		Email:   data.user.Email,
		Name:    data.user.Name,
		Subject: "Payment receipt",
		Fields:  fields,
	})
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode task payload: %w", err)
	}
	return nil
}

// FormatAmount renders minor units as a decimal amount with currency, e.g. "12.50 EUR"
func FormatAmount(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, currency)
}
