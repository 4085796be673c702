package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clubledger/domain/calendar"
	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/events"
	"clubledger/domain/interfaces"
	"clubledger/domain/utils"

	log "github.com/sirupsen/logrus"
)

type reconciliationService struct {
	paymentRepo    interfaces.PaymentRepository
	membershipRepo interfaces.MembershipRepository
	creditRepo     interfaces.CreditRepository
	userRepo       interfaces.UserRepository
	rbacRepo       interfaces.RBACRepository
	settings       interfaces.SettingsService
	finance        interfaces.FinanceService
	calendar       *calendar.Calendar
	clock          Clock
	eventPublisher interfaces.EventPublisher
}

// NewReconciliationService creates the payment reconciliation engine.
// All repositories must share the caller's transaction.
func NewReconciliationService(
	paymentRepo interfaces.PaymentRepository,
	membershipRepo interfaces.MembershipRepository,
	creditRepo interfaces.CreditRepository,
	userRepo interfaces.UserRepository,
	rbacRepo interfaces.RBACRepository,
	settings interfaces.SettingsService,
	finance interfaces.FinanceService,
	cal *calendar.Calendar,
	clock Clock,
	eventPublisher interfaces.EventPublisher,
) interfaces.ReconciliationService {
	if cal == nil {
		cal = calendar.Default
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &reconciliationService{
		paymentRepo:    paymentRepo,
		membershipRepo: membershipRepo,
		creditRepo:     creditRepo,
		userRepo:       userRepo,
		rbacRepo:       rbacRepo,
		settings:       settings,
		finance:        finance,
		calendar:       cal,
		clock:          clock,
		eventPublisher: eventPublisher,
	}
}

// Confirm completes a pending online payment reported by the payment gateway
func (s *reconciliationService) Confirm(ctx context.Context, paymentID int64, externalTransactionID, processor string) (*interfaces.ReconciliationResult, error) {
	externalTransactionID = strings.TrimSpace(externalTransactionID)
	if externalTransactionID == "" {
		return nil, errs.Validation("external_transaction_id", "is required")
	}
	if processor == "" {
		processor = entities.ProcessorSumUp
	}

	payment, err := s.lockPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Method == entities.PaymentMethodCash {
		return nil, errs.InvariantViolation("cash payment %d must be confirmed by an administrator", paymentID)
	}

	return s.complete(ctx, payment, externalTransactionID, processor)
}

// ConfirmCash completes a pending cash payment on behalf of an administrator
func (s *reconciliationService) ConfirmCash(ctx context.Context, paymentID, adminID int64) (*interfaces.ReconciliationResult, error) {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	if admin == nil {
		return nil, errs.NotFound("user", adminID)
	}

	allowed, err := s.rbacRepo.UserHasPermission(ctx, adminID, entities.PermissionPaymentsConfirm)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}
	if !allowed {
		return nil, errs.InvariantViolation("user %d lacks %s", adminID, entities.PermissionPaymentsConfirm)
	}

	payment, err := s.lockPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Method != entities.PaymentMethodCash {
		return nil, errs.InvariantViolation("payment %d is not a cash payment", paymentID)
	}

	result, err := s.complete(ctx, payment, cashTransactionID(paymentID), entities.ProcessorCash)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"paymentID": paymentID,
		"adminID":   adminID,
	}).Info("Cash payment confirmed by administrator")

	return result, nil
}

// Fail marks a pending payment failed
func (s *reconciliationService) Fail(ctx context.Context, paymentID int64, reason string) (*entities.Payment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "payment declined"
	}

	payment, err := s.lockPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(entities.PaymentStatusFailed) {
		return nil, &errs.AlreadyFinalizedError{PaymentID: paymentID, Status: string(payment.Status)}
	}

	updated, err := s.paymentRepo.MarkFailed(ctx, paymentID, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to mark payment failed: %w", err)
	}
	if !updated {
		return nil, &errs.AlreadyFinalizedError{PaymentID: paymentID, Status: "finalized concurrently"}
	}

	payment.Status = entities.PaymentStatusFailed
	payment.FailureReason = &reason

	if err := s.eventPublisher.Publish(events.PaymentFailedEvent{
		PaymentID: payment.ID,
		UserID:    payment.UserID,
		Reason:    reason,
	}); err != nil {
		log.WithError(err).Error("Failed to publish payment failed event")
	}

	log.WithFields(log.Fields{
		"paymentID": paymentID,
		"userID":    payment.UserID,
		"reason":    reason,
	}).Info("Payment failed")

	return payment, nil
}

// Cancel marks a pending payment cancelled
func (s *reconciliationService) Cancel(ctx context.Context, paymentID int64) (*entities.Payment, error) {
	payment, err := s.lockPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(entities.PaymentStatusCancelled) {
		return nil, &errs.AlreadyFinalizedError{PaymentID: paymentID, Status: string(payment.Status)}
	}

	updated, err := s.paymentRepo.MarkCancelled(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark payment cancelled: %w", err)
	}
	if !updated {
		return nil, &errs.AlreadyFinalizedError{PaymentID: paymentID, Status: "finalized concurrently"}
	}

	payment.Status = entities.PaymentStatusCancelled

	if err := s.eventPublisher.Publish(events.PaymentCancelledEvent{
		PaymentID: payment.ID,
		UserID:    payment.UserID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish payment cancelled event")
	}

	log.WithFields(log.Fields{
		"paymentID": paymentID,
		"userID":    payment.UserID,
	}).Info("Payment cancelled")

	return payment, nil
}

func (s *reconciliationService) lockPayment(ctx context.Context, paymentID int64) (*entities.Payment, error) {
	payment, err := s.paymentRepo.GetByIDForUpdate(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, errs.NotFound("payment", paymentID)
	}
	return payment, nil
}

// complete runs the pending→completed transition on a locked payment
func (s *reconciliationService) complete(ctx context.Context, payment *entities.Payment, externalTransactionID, processor string) (*interfaces.ReconciliationResult, error) {
	if payment.Status == entities.PaymentStatusCompleted {
		if payment.HasExternalTransactionID(externalTransactionID) {
			return s.replay(ctx, payment)
		}
		return nil, &errs.AlreadyFinalizedError{
			PaymentID: payment.ID,
			Status:    string(payment.Status),
			Detail:    "confirmed with a different external transaction id",
		}
	}
	if !payment.Status.CanTransitionTo(entities.PaymentStatusCompleted) {
		return nil, &errs.AlreadyFinalizedError{PaymentID: payment.ID, Status: string(payment.Status)}
	}

	other, err := s.paymentRepo.GetByExternalTransactionID(ctx, externalTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check external transaction id: %w", err)
	}
	if other != nil && other.ID != payment.ID {
		return nil, errs.InvariantViolation("external transaction id %q already belongs to payment %d", externalTransactionID, other.ID)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	// Everything that can reject the payment is checked before the status flips
	var quantity int64
	switch payment.Type {
	case entities.PaymentTypeMembership:
	case entities.PaymentTypeCredits:
		if quantity, err = CreditQuantityFor(payment, settings); err != nil {
			return nil, err
		}
	default:
		return nil, errs.InvariantViolation("payment %d has unknown type %q", payment.ID, payment.Type)
	}

	updated, err := s.paymentRepo.MarkCompleted(ctx, payment.ID, externalTransactionID, processor)
	if err != nil {
		return nil, fmt.Errorf("failed to mark payment completed: %w", err)
	}
	if !updated {
		return nil, &errs.AlreadyFinalizedError{PaymentID: payment.ID, Status: "finalized concurrently"}
	}

	payment.Status = entities.PaymentStatusCompleted
	payment.ExternalTransactionID = &externalTransactionID
	payment.Processor = &processor

	today := entities.DateOnly(s.clock.Now())
	result := &interfaces.ReconciliationResult{Payment: payment}

	if payment.Type == entities.PaymentTypeMembership {
		result.Membership, err = s.applyMembership(ctx, payment, settings, today)
	} else {
		result.Credit, err = s.applyCredits(ctx, payment, quantity)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.finance.RecordPaymentIncome(ctx, payment, settings, today); err != nil {
		return nil, fmt.Errorf("failed to record payment income: %w", err)
	}

	if err := s.eventPublisher.Publish(events.PaymentCompletedEvent{
		PaymentID:             payment.ID,
		UserID:                payment.UserID,
		AmountCents:           payment.AmountCents,
		Currency:              payment.Currency,
		PaymentType:           string(payment.Type),
		PaymentMethod:         string(payment.Method),
		ExternalTransactionID: externalTransactionID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish payment completed event")
	}

	log.WithFields(log.Fields{
		"paymentID":             payment.ID,
		"userID":                payment.UserID,
		"paymentType":           payment.Type,
		"amountCents":           payment.AmountCents,
		"externalTransactionID": externalTransactionID,
	}).Info("Payment confirmed")

	return result, nil
}

// replay answers a repeated identical confirmation with the existing effect
func (s *reconciliationService) replay(ctx context.Context, payment *entities.Payment) (*interfaces.ReconciliationResult, error) {
	result := &interfaces.ReconciliationResult{Payment: payment, AlreadyApplied: true}

	var err error
	switch payment.Type {
	case entities.PaymentTypeMembership:
		result.Membership, err = s.membershipRepo.GetByUserID(ctx, payment.UserID)
	case entities.PaymentTypeCredits:
		result.Credit, err = s.creditRepo.GetByPaymentID(ctx, payment.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load applied effect: %w", err)
	}

	log.WithFields(log.Fields{
		"paymentID": payment.ID,
	}).Info("Duplicate payment confirmation ignored")

	return result, nil
}

// applyMembership starts a new period on the user's single membership row
func (s *reconciliationService) applyMembership(ctx context.Context, payment *entities.Payment, settings *entities.ApplicationSettings, today time.Time) (*entities.Membership, error) {
	membership, err := s.membershipRepo.GetByUserIDForUpdate(ctx, payment.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	renewal := false
	switch {
	case membership == nil:
		start := today
		membership = &entities.Membership{
			UserID:     payment.UserID,
			StartDate:  start,
			ExpiryDate: s.calendar.ComputeExpiry(start, settings),
			Credits:    settings.MembershipShootsIncluded,
			Status:     entities.MembershipStatusActive,
		}
		if err := s.membershipRepo.Create(ctx, membership); err != nil {
			return nil, fmt.Errorf("failed to create membership: %w", err)
		}
	case membership.Status == entities.MembershipStatusPending:
		start := today
		if err := membership.Activate(start, s.calendar.ComputeExpiry(start, settings), settings.MembershipShootsIncluded); err != nil {
			return nil, errs.InvariantViolation("%v", err)
		}
		if err := s.membershipRepo.UpdatePeriod(ctx, membership); err != nil {
			return nil, fmt.Errorf("failed to activate membership: %w", err)
		}
	default:
		renewal = true
		start := membership.RenewalStart(today)
		if err := membership.Renew(start, s.calendar.ComputeExpiry(start, settings), settings.MembershipShootsIncluded); err != nil {
			return nil, errs.InvariantViolation("%v", err)
		}
		if err := s.membershipRepo.UpdatePeriod(ctx, membership); err != nil {
			return nil, fmt.Errorf("failed to renew membership: %w", err)
		}
	}

	if err := s.eventPublisher.Publish(events.MembershipActivatedEvent{
		MembershipID: membership.ID,
		UserID:       membership.UserID,
		PaymentID:    payment.ID,
		StartDate:    membership.StartDate,
		ExpiryDate:   membership.ExpiryDate,
		Credits:      membership.Credits,
		Renewal:      renewal,
	}); err != nil {
		log.WithError(err).Error("Failed to publish membership activated event")
	}

	log.WithFields(log.Fields{
		"userID":     membership.UserID,
		"startDate":  membership.StartDate.Format(entities.DateLayout),
		"expiryDate": membership.ExpiryDate.Format(entities.DateLayout),
		"credits":    membership.Credits,
		"renewal":    renewal,
	}).Info("Membership period started")

	return membership, nil
}

// applyCredits grants the purchased credits as one ledger row tied to the payment
func (s *reconciliationService) applyCredits(ctx context.Context, payment *entities.Payment, quantity int64) (*entities.Credit, error) {
	if err := s.creditRepo.LockUserLedger(ctx, payment.UserID); err != nil {
		return nil, fmt.Errorf("failed to lock credit ledger: %w", err)
	}

	reason := entities.CreditReasonPurchase
	credit := &entities.Credit{
		UserID:    payment.UserID,
		Amount:    quantity,
		PaymentID: utils.Int64Ptr(payment.ID),
		Reason:    &reason,
	}
	if _, err := utils.RecordCreditEntry(ctx, s.creditRepo, s.eventPublisher, credit, events.CreditChangePurchase); err != nil {
		return nil, err
	}

	return credit, nil
}

// CreditQuantityFor returns how many credits a credits payment buys. The
// quantity fixed at purchase time wins; older rows fall back to the current
// price, which must divide the amount exactly.
func CreditQuantityFor(payment *entities.Payment, settings *entities.ApplicationSettings) (int64, error) {
	if payment.CreditQuantity != nil {
		if *payment.CreditQuantity <= 0 {
			return 0, errs.InvariantViolation("payment %d has non-positive credit quantity %d", payment.ID, *payment.CreditQuantity)
		}
		return *payment.CreditQuantity, nil
	}
	if settings.AdditionalShootCost <= 0 {
		return 0, errs.InvariantViolation("additional shoot cost must be positive to price credits")
	}
	if payment.AmountCents%settings.AdditionalShootCost != 0 {
		return 0, errs.InvariantViolation("payment amount %d is not a multiple of the credit price %d",
			payment.AmountCents, settings.AdditionalShootCost)
	}
	return payment.AmountCents / settings.AdditionalShootCost, nil
}

func cashTransactionID(paymentID int64) string {
	return fmt.Sprintf("cash-%d", paymentID)
}
