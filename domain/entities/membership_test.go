package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from MembershipStatus
		to   MembershipStatus
		want bool
	}{
		{MembershipStatusPending, MembershipStatusActive, true},
		{MembershipStatusActive, MembershipStatusExpired, true},
		{MembershipStatusPending, MembershipStatusExpired, false},
		{MembershipStatusActive, MembershipStatusPending, false},
		{MembershipStatusExpired, MembershipStatusActive, false},
		{MembershipStatusExpired, MembershipStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestMembership_IsActive(t *testing.T) {
	t.Parallel()

	expiry := NewDate(2027, time.February, 28)
	m := &Membership{Status: MembershipStatusActive, ExpiryDate: expiry, Credits: 1}

	assert.True(t, m.IsActive(expiry.Add(20*time.Hour)), "usable through the expiry day")
	assert.False(t, m.IsActive(expiry.AddDate(0, 0, 1)))
	assert.True(t, m.HasAllowance(expiry))

	m.Credits = 0
	assert.False(t, m.HasAllowance(expiry))

	m.Status = MembershipStatusPending
	m.Credits = 5
	assert.False(t, m.IsActive(expiry))
}

func TestMembership_RenewalStart(t *testing.T) {
	t.Parallel()

	today := NewDate(2026, time.June, 10)
	expiry := NewDate(2027, time.February, 28)

	active := &Membership{Status: MembershipStatusActive, ExpiryDate: expiry}
	assert.Equal(t, expiry, active.RenewalStart(today))

	expired := &Membership{Status: MembershipStatusExpired, ExpiryDate: NewDate(2026, time.February, 28)}
	assert.Equal(t, today, expired.RenewalStart(today.Add(5*time.Hour)))

	endsToday := &Membership{Status: MembershipStatusActive, ExpiryDate: today}
	assert.Equal(t, today, endsToday.RenewalStart(today))
}

func TestMembership_Periods(t *testing.T) {
	t.Parallel()

	start := NewDate(2026, time.March, 1)
	expiry := NewDate(2027, time.February, 28)

	t.Run("activate pending", func(t *testing.T) {
		m := &Membership{Status: MembershipStatusPending}
		require.NoError(t, m.Activate(start, expiry, 20))
		assert.Equal(t, MembershipStatusActive, m.Status)
		assert.Equal(t, 20, m.Credits)
	})

	t.Run("activate active fails", func(t *testing.T) {
		m := &Membership{Status: MembershipStatusActive}
		assert.Error(t, m.Activate(start, expiry, 20))
	})

	t.Run("renew expired", func(t *testing.T) {
		m := &Membership{Status: MembershipStatusExpired, Credits: 4}
		require.NoError(t, m.Renew(start, expiry, 20))
		assert.Equal(t, MembershipStatusActive, m.Status)
		assert.Equal(t, 20, m.Credits)
	})

	t.Run("renew pending fails", func(t *testing.T) {
		m := &Membership{Status: MembershipStatusPending}
		assert.Error(t, m.Renew(start, expiry, 20))
	})

	t.Run("expiry must follow start", func(t *testing.T) {
		m := &Membership{Status: MembershipStatusPending}
		assert.Error(t, m.Activate(start, start, 20))
		assert.Equal(t, MembershipStatusPending, m.Status)
	})

	t.Run("expire", func(t *testing.T) {
		m := &Membership{Status: MembershipStatusActive}
		require.NoError(t, m.Expire())
		assert.Equal(t, MembershipStatusExpired, m.Status)
		assert.Error(t, m.Expire())
	})
}
