package utils

import (
	"context"
	"fmt"

	"clubledger/domain/entities"
	"clubledger/domain/events"
	"clubledger/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordCreditEntry appends a credit ledger row and emits a CreditChangedEvent.
// Every write to the credit ledger goes through here. Returns the balance after the write.
func RecordCreditEntry(ctx context.Context, creditRepo interfaces.CreditRepository, eventPublisher interfaces.EventPublisher, credit *entities.Credit, kind events.CreditChangeKind) (int64, error) {
	if credit.Amount == 0 {
		return 0, fmt.Errorf("credit entry for user %d has zero amount", credit.UserID)
	}

	if err := creditRepo.Create(ctx, credit); err != nil {
		return 0, fmt.Errorf("failed to record credit entry: %w", err)
	}

	balance, err := creditRepo.GetBalance(ctx, credit.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to get credit balance: %w", err)
	}

	event := events.CreditChangedEvent{
		CreditID:     credit.ID,
		UserID:       credit.UserID,
		Amount:       credit.Amount,
		NewBalance:   balance,
		Kind:         kind,
		PaymentID:    credit.PaymentID,
		AdjustedByID: credit.AdjustedByID,
	}
	log.WithFields(log.Fields{
		"userID":     event.UserID,
		"creditID":   event.CreditID,
		"amount":     event.Amount,
		"newBalance": event.NewBalance,
		"kind":       event.Kind,
	}).Debug("Publishing CreditChangedEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish credit changed event")
	}

	return balance, nil
}

// StringPtr returns a pointer to s, or nil for an empty string
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}
