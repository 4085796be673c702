package repository

import (
	"context"
	"testing"
	"time"

	"clubledger/domain/entities"
	"clubledger/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipRepository_ConsumeAllowance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewMembershipRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("archer")
	require.NoError(t, users.Create(ctx, user))

	membership := testutil.CreateTestMembership(user.ID, 1)
	require.NoError(t, repo.Create(ctx, membership))

	today := entities.NewDate(2026, time.June, 10)

	consumed, err := repo.ConsumeAllowance(ctx, user.ID, today)
	require.NoError(t, err)
	assert.True(t, consumed)

	consumed, err = repo.ConsumeAllowance(ctx, user.ID, today)
	require.NoError(t, err)
	assert.False(t, consumed, "allowance exhausted")

	stored, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Credits)

	t.Run("expired period is not usable", func(t *testing.T) {
		stored.Credits = 5
		require.NoError(t, repo.UpdatePeriod(ctx, stored))

		consumed, err := repo.ConsumeAllowance(ctx, user.ID, entities.NewDate(2027, time.March, 1))
		require.NoError(t, err)
		assert.False(t, consumed)

		consumed, err = repo.ConsumeAllowance(ctx, user.ID, stored.ExpiryDate)
		require.NoError(t, err)
		assert.True(t, consumed, "the expiry day itself is still covered")
	})
}

func TestMembershipRepository_ExpireBefore(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewMembershipRepository(testDB.DB)
	ctx := context.Background()

	create := func(name string, status entities.MembershipStatus) *entities.Membership {
		user := testutil.CreateTestUser(name)
		require.NoError(t, users.Create(ctx, user))
		m := testutil.CreateTestMembership(user.ID, 3)
		m.Status = status
		require.NoError(t, repo.Create(ctx, m))
		return m
	}

	lapsed := create("lapsed", entities.MembershipStatusActive)
	pending := create("pending", entities.MembershipStatusPending)

	t.Run("nothing to expire on the expiry day", func(t *testing.T) {
		expired, err := repo.ExpireBefore(ctx, lapsed.ExpiryDate)
		require.NoError(t, err)
		assert.Empty(t, expired)
	})

	t.Run("active rows past expiry move to expired", func(t *testing.T) {
		expired, err := repo.ExpireBefore(ctx, lapsed.ExpiryDate.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, lapsed.ID, expired[0].ID)
		assert.Equal(t, entities.MembershipStatusExpired, expired[0].Status)

		untouched, err := repo.GetByUserID(ctx, pending.UserID)
		require.NoError(t, err)
		assert.Equal(t, entities.MembershipStatusPending, untouched.Status)
	})

	t.Run("second sweep is a no-op", func(t *testing.T) {
		expired, err := repo.ExpireBefore(ctx, lapsed.ExpiryDate.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Empty(t, expired)
	})
}

func TestMembershipRepository_OnePerUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewMembershipRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("single")
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestMembership(user.ID, 20)))

	assert.Error(t, repo.Create(ctx, testutil.CreateTestMembership(user.ID, 20)))
}
