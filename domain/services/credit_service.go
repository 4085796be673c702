package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/events"
	"clubledger/domain/interfaces"
	"clubledger/domain/utils"

	log "github.com/sirupsen/logrus"
)

const defaultCreditHistoryLimit = 100

type creditService struct {
	creditRepo     interfaces.CreditRepository
	membershipRepo interfaces.MembershipRepository
	userRepo       interfaces.UserRepository
	eventPublisher interfaces.EventPublisher
}

// NewCreditService creates a new credit accounting service
func NewCreditService(
	creditRepo interfaces.CreditRepository,
	membershipRepo interfaces.MembershipRepository,
	userRepo interfaces.UserRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.CreditService {
	return &creditService{
		creditRepo:     creditRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
	}
}

// Balance returns the sum of a user's credit rows
func (s *creditService) Balance(ctx context.Context, userID int64) (int64, error) {
	balance, err := s.creditRepo.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get credit balance: %w", err)
	}
	return balance, nil
}

// DeductForAttendance pays for one shoot. The membership allowance is used
// first; purchased credits only when the allowance is gone.
func (s *creditService) DeductForAttendance(ctx context.Context, userID, shootID int64, today time.Time) (*interfaces.DeductionResult, error) {
	today = entities.DateOnly(today)

	if err := s.creditRepo.LockUserLedger(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to lock credit ledger: %w", err)
	}

	consumed, err := s.membershipRepo.ConsumeAllowance(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to consume membership allowance: %w", err)
	}

	balance, err := s.creditRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credit balance: %w", err)
	}

	if consumed {
		log.WithFields(log.Fields{
			"userID":  userID,
			"shootID": shootID,
		}).Info("Shoot paid from membership allowance")
		return &interfaces.DeductionResult{FromAllowance: true, Balance: balance}, nil
	}

	if balance-1 < 0 {
		return nil, &errs.InsufficientCreditsError{UserID: userID, Balance: balance}
	}

	reason := entities.CreditReasonShootAttendance
	credit := &entities.Credit{
		UserID: userID,
		Amount: -1,
		Reason: &reason,
	}
	newBalance, err := utils.RecordCreditEntry(ctx, s.creditRepo, s.eventPublisher, credit, events.CreditChangeAttendance)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"shootID":    shootID,
		"newBalance": newBalance,
	}).Info("Shoot paid from purchased credits")

	return &interfaces.DeductionResult{Credit: credit, Balance: newBalance}, nil
}

// Adjust records a manual administrator correction. There is no balance
// floor; an adjustment may take a balance below zero.
func (s *creditService) Adjust(ctx context.Context, userID, amount, adminID int64, reason string) (*entities.Credit, error) {
	reason = strings.TrimSpace(reason)
	if amount == 0 {
		return nil, errs.InvariantViolation("credit adjustment amount must be non-zero")
	}
	if reason == "" {
		return nil, errs.InvariantViolation("credit adjustment requires a reason")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errs.NotFound("user", userID)
	}

	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	if admin == nil {
		return nil, errs.NotFound("user", adminID)
	}

	if err := s.creditRepo.LockUserLedger(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to lock credit ledger: %w", err)
	}

	credit := &entities.Credit{
		UserID:       userID,
		Amount:       amount,
		AdjustedByID: &adminID,
		Reason:       &reason,
	}
	newBalance, err := utils.RecordCreditEntry(ctx, s.creditRepo, s.eventPublisher, credit, events.CreditChangeAdjustment)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"adminID":    adminID,
		"amount":     amount,
		"newBalance": newBalance,
		"reason":     reason,
	}).Info("Credits adjusted")

	return credit, nil
}

// History returns the most recent ledger rows of a user
func (s *creditService) History(ctx context.Context, userID int64, limit int) ([]*entities.Credit, error) {
	if limit <= 0 {
		limit = defaultCreditHistoryLimit
	}
	credits, err := s.creditRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get credit history: %w", err)
	}
	return credits, nil
}

// LowStanding returns active members whose allowance plus balance is at most threshold
func (s *creditService) LowStanding(ctx context.Context, threshold int64, today time.Time) ([]*entities.CreditStanding, error) {
	standings, err := s.creditRepo.ListLowStanding(ctx, threshold, entities.DateOnly(today))
	if err != nil {
		return nil, fmt.Errorf("failed to list low credit members: %w", err)
	}
	return standings, nil
}
