package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type shootService struct {
	shootRepo interfaces.ShootRepository
	userRepo  interfaces.UserRepository
	credits   interfaces.CreditService
	finance   interfaces.FinanceService
	settings  interfaces.SettingsService
}

// NewShootService creates a new shoot service
func NewShootService(
	shootRepo interfaces.ShootRepository,
	userRepo interfaces.UserRepository,
	credits interfaces.CreditService,
	finance interfaces.FinanceService,
	settings interfaces.SettingsService,
) interfaces.ShootService {
	return &shootService{
		shootRepo: shootRepo,
		userRepo:  userRepo,
		credits:   credits,
		finance:   finance,
		settings:  settings,
	}
}

// CreateShoot schedules a shoot
func (s *shootService) CreateShoot(ctx context.Context, date time.Time, location entities.ShootLocation, description *string) (*entities.Shoot, error) {
	if !location.IsValid() {
		return nil, errs.Validation("location", "unknown shoot location %q", location)
	}
	if date.IsZero() {
		return nil, errs.Validation("date", "is required")
	}

	shoot := &entities.Shoot{
		Date:        entities.DateOnly(date),
		Location:    location,
		Description: description,
	}
	if err := s.shootRepo.Create(ctx, shoot); err != nil {
		return nil, fmt.Errorf("failed to create shoot: %w", err)
	}

	log.WithFields(log.Fields{
		"shootID":  shoot.ID,
		"date":     shoot.Date.Format(entities.DateLayout),
		"location": shoot.Location,
	}).Info("Shoot created")

	return shoot, nil
}

// RecordAttendance records a member at a shoot and pays for it from the
// membership allowance or purchased credits
func (s *shootService) RecordAttendance(ctx context.Context, shootID, userID int64, today time.Time) (*interfaces.DeductionResult, error) {
	if _, err := s.getShoot(ctx, shootID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errs.NotFound("user", userID)
	}
	if !user.IsActive {
		return nil, errs.InvariantViolation("user %d is deactivated", userID)
	}

	added, err := s.shootRepo.AddAttendee(ctx, shootID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}
	if !added {
		return nil, errs.InvariantViolation("user %d already attended shoot %d", userID, shootID)
	}

	return s.credits.DeductForAttendance(ctx, userID, shootID, today)
}

// AddVisitor records a walk-in visitor and books the visitor fee on the shoot date
func (s *shootService) AddVisitor(ctx context.Context, visitor *entities.ShootVisitor, recordedByID *int64) error {
	visitor.Name = strings.TrimSpace(visitor.Name)
	if visitor.Name == "" {
		return errs.Validation("name", "visitor name is required")
	}
	if visitor.PaymentMethod == "" {
		visitor.PaymentMethod = entities.PaymentMethodCash
	}
	if !visitor.PaymentMethod.IsValid() {
		return errs.Validation("payment_method", "unknown payment method %q", visitor.PaymentMethod)
	}

	shoot, err := s.getShoot(ctx, visitor.ShootID)
	if err != nil {
		return err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}

	if err := s.shootRepo.AddVisitor(ctx, visitor); err != nil {
		return fmt.Errorf("failed to add visitor: %w", err)
	}

	if _, err := s.finance.RecordVisitorFee(ctx, visitor, settings, shoot.Date, recordedByID); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"shootID":   visitor.ShootID,
		"visitorID": visitor.ID,
		"feeCents":  settings.VisitorShootFee,
	}).Info("Visitor recorded")

	return nil
}

// ListShoots returns shoots dated within [from, to]
func (s *shootService) ListShoots(ctx context.Context, from, to time.Time) ([]*entities.Shoot, error) {
	shoots, err := s.shootRepo.ListBetween(ctx, entities.DateOnly(from), entities.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list shoots: %w", err)
	}
	return shoots, nil
}

func (s *shootService) getShoot(ctx context.Context, shootID int64) (*entities.Shoot, error) {
	shoot, err := s.shootRepo.GetByID(ctx, shootID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shoot: %w", err)
	}
	if shoot == nil {
		return nil, errs.NotFound("shoot", shootID)
	}
	return shoot, nil
}
