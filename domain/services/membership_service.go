package services

import (
	"context"
	"fmt"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/events"
	"clubledger/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type membershipService struct {
	membershipRepo interfaces.MembershipRepository
	eventPublisher interfaces.EventPublisher
}

// NewMembershipService creates a new membership lifecycle service
func NewMembershipService(membershipRepo interfaces.MembershipRepository, eventPublisher interfaces.EventPublisher) interfaces.MembershipService {
	return &membershipService{
		membershipRepo: membershipRepo,
		eventPublisher: eventPublisher,
	}
}

// GetMembership returns the membership of a user
func (s *membershipService) GetMembership(ctx context.Context, userID int64) (*entities.Membership, error) {
	membership, err := s.membershipRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return nil, errs.NotFound("membership", userID)
	}
	return membership, nil
}

// ExpireMemberships moves every active membership whose expiry date is
// before today to expired. A membership stays usable through its expiry day.
func (s *membershipService) ExpireMemberships(ctx context.Context, today time.Time) ([]*entities.Membership, error) {
	today = entities.DateOnly(today)

	expired, err := s.membershipRepo.ExpireBefore(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to expire memberships: %w", err)
	}

	for _, membership := range expired {
		if err := s.eventPublisher.Publish(events.MembershipExpiredEvent{
			MembershipID: membership.ID,
			UserID:       membership.UserID,
			ExpiryDate:   membership.ExpiryDate,
		}); err != nil {
			log.WithError(err).WithField("userID", membership.UserID).Error("Failed to publish membership expired event")
		}
	}

	if len(expired) > 0 {
		log.WithFields(log.Fields{
			"count": len(expired),
			"today": today.Format(entities.DateLayout),
		}).Info("Memberships expired")
	}

	return expired, nil
}
