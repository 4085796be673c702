package application_test

import (
	"context"
	"testing"
	"time"

	"clubledger/application"
	"clubledger/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpirySweepWorker_Sweep(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	lapsed := env.createUser(t, "lapsed")
	env.createMembership(t, &entities.Membership{
		UserID:     lapsed.ID,
		StartDate:  entities.NewDate(2025, time.March, 1),
		ExpiryDate: entities.NewDate(2026, time.February, 28),
		Credits:    2,
		Status:     entities.MembershipStatusActive,
	})

	current := env.createUser(t, "current")
	env.createMembership(t, &entities.Membership{
		UserID:     current.ID,
		StartDate:  entities.NewDate(2026, time.March, 1),
		ExpiryDate: entities.NewDate(2027, time.February, 28),
		Credits:    20,
		Status:     entities.MembershipStatusActive,
	})

	worker := application.NewExpirySweepWorker(env.uowFactory, env.cfg)

	expired, err := worker.Sweep(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, lapsed.ID, expired[0].UserID)

	assert.Equal(t, entities.MembershipStatusExpired, env.loadMembership(t, lapsed.ID).Status)
	assert.Equal(t, entities.MembershipStatusActive, env.loadMembership(t, current.ID).Status)

	// Sweeping again finds nothing left to expire
	expired, err = worker.Sweep(ctx)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestExpirySweepWorker_StartStop(t *testing.T) {
	env := setupIntegration(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := application.NewExpirySweepWorker(env.uowFactory, env.cfg)
	stop := worker.Start(ctx, 50*time.Millisecond)

	time.Sleep(120 * time.Millisecond)
	stop()
}
