package services

import (
	"context"
	"fmt"

	"clubledger/domain/calendar"
	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const defaultPaymentListLimit = 50

type paymentService struct {
	paymentRepo    interfaces.PaymentRepository
	membershipRepo interfaces.MembershipRepository
	userRepo       interfaces.UserRepository
	settings       interfaces.SettingsService
	calendar       *calendar.Calendar
	clock          Clock
	currency       string
}

// NewPaymentService creates the service that records purchase intents
func NewPaymentService(
	paymentRepo interfaces.PaymentRepository,
	membershipRepo interfaces.MembershipRepository,
	userRepo interfaces.UserRepository,
	settings interfaces.SettingsService,
	cal *calendar.Calendar,
	clock Clock,
	currency string,
) interfaces.PaymentService {
	if cal == nil {
		cal = calendar.Default
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if currency == "" {
		currency = "EUR"
	}
	return &paymentService{
		paymentRepo:    paymentRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		settings:       settings,
		calendar:       cal,
		clock:          clock,
		currency:       currency,
	}
}

// CreateMembershipPayment creates a pending payment for the annual fee. A
// user without a membership row gets a pending one that the confirmation activates.
func (s *paymentService) CreateMembershipPayment(ctx context.Context, userID int64, method entities.PaymentMethod) (*entities.Payment, error) {
	if err := s.checkPayer(ctx, userID, method); err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.AnnualMembershipCost <= 0 {
		return nil, errs.InvariantViolation("annual membership cost must be positive")
	}

	membership, err := s.membershipRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		today := entities.DateOnly(s.clock.Now())
		membership = &entities.Membership{
			UserID:     userID,
			StartDate:  today,
			ExpiryDate: s.calendar.ComputeExpiry(today, settings),
			Status:     entities.MembershipStatusPending,
		}
		if err := s.membershipRepo.Create(ctx, membership); err != nil {
			return nil, fmt.Errorf("failed to create pending membership: %w", err)
		}
	}

	payment := &entities.Payment{
		UserID:      userID,
		AmountCents: settings.AnnualMembershipCost,
		Currency:    s.currency,
		Type:        entities.PaymentTypeMembership,
		Method:      method,
		Status:      entities.PaymentStatusPending,
		Description: "Annual membership",
	}
	return s.create(ctx, payment)
}

// CreateCreditPayment creates a pending payment for quantity shoot credits
func (s *paymentService) CreateCreditPayment(ctx context.Context, userID int64, quantity int64, method entities.PaymentMethod) (*entities.Payment, error) {
	if quantity <= 0 {
		return nil, errs.Validation("quantity", "must be positive, got %d", quantity)
	}
	if err := s.checkPayer(ctx, userID, method); err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.AdditionalShootCost <= 0 {
		return nil, errs.InvariantViolation("additional shoot cost must be positive to price credits")
	}

	return s.create(ctx, creditPayment(userID, quantity, quantity*settings.AdditionalShootCost, s.currency, method))
}

// CreateCreditPaymentForAmount creates a pending credits payment for an exact
// amount, which must buy a whole number of credits
func (s *paymentService) CreateCreditPaymentForAmount(ctx context.Context, userID int64, amountCents int64, method entities.PaymentMethod) (*entities.Payment, error) {
	if amountCents <= 0 {
		return nil, errs.Validation("amount_cents", "must be positive, got %d", amountCents)
	}
	if err := s.checkPayer(ctx, userID, method); err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.AdditionalShootCost <= 0 {
		return nil, errs.InvariantViolation("additional shoot cost must be positive to price credits")
	}
	if amountCents%settings.AdditionalShootCost != 0 {
		return nil, errs.InvariantViolation("amount %d is not a multiple of the credit price %d",
			amountCents, settings.AdditionalShootCost)
	}

	quantity := amountCents / settings.AdditionalShootCost
	return s.create(ctx, creditPayment(userID, quantity, amountCents, s.currency, method))
}

// GetPayment returns a payment by ID
func (s *paymentService) GetPayment(ctx context.Context, paymentID int64) (*entities.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, errs.NotFound("payment", paymentID)
	}
	return payment, nil
}

// ListUserPayments returns the most recent payments of a user
func (s *paymentService) ListUserPayments(ctx context.Context, userID int64, limit int) ([]*entities.Payment, error) {
	if limit <= 0 {
		limit = defaultPaymentListLimit
	}
	payments, err := s.paymentRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListPendingCashPayments returns cash payments waiting for an administrator
func (s *paymentService) ListPendingCashPayments(ctx context.Context) ([]*entities.Payment, error) {
	payments, err := s.paymentRepo.ListPending(ctx, entities.PaymentMethodCash)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending cash payments: %w", err)
	}
	return payments, nil
}

func (s *paymentService) checkPayer(ctx context.Context, userID int64, method entities.PaymentMethod) error {
	if !method.IsValid() {
		return errs.Validation("payment_method", "unknown payment method %q", method)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return errs.NotFound("user", userID)
	}
	if !user.IsActive {
		return errs.InvariantViolation("user %d is deactivated", userID)
	}
	return nil
}

func (s *paymentService) create(ctx context.Context, payment *entities.Payment) (*entities.Payment, error) {
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	log.WithFields(log.Fields{
		"paymentID":     payment.ID,
		"userID":        payment.UserID,
		"paymentType":   payment.Type,
		"paymentMethod": payment.Method,
		"amountCents":   payment.AmountCents,
	}).Info("Payment intent created")

	return payment, nil
}

func creditPayment(userID, quantity, amountCents int64, currency string, method entities.PaymentMethod) *entities.Payment {
	return &entities.Payment{
		UserID:         userID,
		AmountCents:    amountCents,
		Currency:       currency,
		Type:           entities.PaymentTypeCredits,
		Method:         method,
		Status:         entities.PaymentStatusPending,
		Description:    fmt.Sprintf("%d shoot credits", quantity),
		CreditQuantity: &quantity,
	}
}
