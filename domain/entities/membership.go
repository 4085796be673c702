package entities

import (
	"fmt"
	"time"
)

// MembershipStatus represents the lifecycle state of a membership
type MembershipStatus string

const (
	MembershipStatusPending MembershipStatus = "pending"
	MembershipStatusActive  MembershipStatus = "active"
	MembershipStatusExpired MembershipStatus = "expired"
)

// IsValid reports whether the status is one of the defined values
func (s MembershipStatus) IsValid() bool {
	switch s {
	case MembershipStatusPending, MembershipStatusActive, MembershipStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next.
// Only pending→active (payment confirmation) and active→expired (time) exist.
func (s MembershipStatus) CanTransitionTo(next MembershipStatus) bool {
	switch s {
	case MembershipStatusPending:
		return next == MembershipStatusActive
	case MembershipStatusActive:
		return next == MembershipStatusExpired
	}
	return false
}

// Membership is the single membership row a user holds. Credits is the
// shoot allowance left for the current period.
type Membership struct {
	ID         int64            `db:"id"`
	UserID     int64            `db:"user_id"`
	StartDate  time.Time        `db:"start_date"`
	ExpiryDate time.Time        `db:"expiry_date"`
	Credits    int              `db:"credits"`
	Status     MembershipStatus `db:"status"`
	CreatedAt  time.Time        `db:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at"`
}

// IsActive returns true when the membership is active and not past its expiry on the given day
func (m *Membership) IsActive(today time.Time) bool {
	return m.Status == MembershipStatusActive && !DateOnly(m.ExpiryDate).Before(DateOnly(today))
}

// HasAllowance returns true if an active membership still has included shoots left
func (m *Membership) HasAllowance(today time.Time) bool {
	return m.IsActive(today) && m.Credits > 0
}

// RenewalStart returns the start date of the next period bought on today:
// the current expiry when the membership is still running, today otherwise.
func (m *Membership) RenewalStart(today time.Time) time.Time {
	today = DateOnly(today)
	if m.IsActive(today) && DateOnly(m.ExpiryDate).After(today) {
		return DateOnly(m.ExpiryDate)
	}
	return today
}

// Activate moves a pending membership into its first period
func (m *Membership) Activate(start, expiry time.Time, credits int) error {
	if !m.Status.CanTransitionTo(MembershipStatusActive) {
		return fmt.Errorf("cannot activate membership %d in status %s", m.ID, m.Status)
	}
	return m.applyPeriod(start, expiry, credits)
}

// Renew replaces the period of an active or expired membership. This starts
// a new period rather than reversing an expiry.
func (m *Membership) Renew(start, expiry time.Time, credits int) error {
	if m.Status != MembershipStatusActive && m.Status != MembershipStatusExpired {
		return fmt.Errorf("cannot renew membership %d in status %s", m.ID, m.Status)
	}
	return m.applyPeriod(start, expiry, credits)
}

// Expire moves an active membership to expired
func (m *Membership) Expire() error {
	if !m.Status.CanTransitionTo(MembershipStatusExpired) {
		return fmt.Errorf("cannot expire membership %d in status %s", m.ID, m.Status)
	}
	m.Status = MembershipStatusExpired
	return nil
}

func (m *Membership) applyPeriod(start, expiry time.Time, credits int) error {
	start, expiry = DateOnly(start), DateOnly(expiry)
	if !expiry.After(start) {
		return fmt.Errorf("membership expiry %s must be after start %s", expiry.Format(DateLayout), start.Format(DateLayout))
	}
	if credits < 0 {
		return fmt.Errorf("membership credits cannot be negative: %d", credits)
	}
	m.StartDate = start
	m.ExpiryDate = expiry
	m.Credits = credits
	m.Status = MembershipStatusActive
	return nil
}
