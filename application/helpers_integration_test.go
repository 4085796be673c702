package application_test

import (
	"context"
	"testing"
	"time"

	"clubledger/application"
	"clubledger/domain/entities"
	"clubledger/domain/services"
	"clubledger/infrastructure"
	"clubledger/repository/testutil"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testToday = entities.NewDate(2026, time.June, 10)

type integrationEnv struct {
	uowFactory application.UnitOfWorkFactory
	cfg        application.ServiceConfig
}

func setupIntegration(t *testing.T) *integrationEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	return setupIntegrationWith(infrastructure.NewUnitOfWorkFactory(testDB.DB, infrastructure.NewNoopEventPublisher()))
}

func setupIntegrationWith(uowFactory application.UnitOfWorkFactory) *integrationEnv {
	return &integrationEnv{
		uowFactory: uowFactory,
		cfg: application.ServiceConfig{
			Currency:          "EUR",
			RenewalWindowDays: 30,
			PasswordHashCost:  bcrypt.MinCost,
			Clock:             services.FixedClock{Time: testToday.Add(10 * time.Hour)},
		},
	}
}

func (e *integrationEnv) createUser(t *testing.T, name string) *entities.User {
	t.Helper()
	ctx := context.Background()

	uow := e.uowFactory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	user := testutil.CreateTestUser(name)
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	require.NoError(t, uow.Commit())
	return user
}

func (e *integrationEnv) createMembership(t *testing.T, membership *entities.Membership) {
	t.Helper()
	ctx := context.Background()

	uow := e.uowFactory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	require.NoError(t, uow.MembershipRepository().Create(ctx, membership))
	require.NoError(t, uow.Commit())
}

func (e *integrationEnv) createMembershipPayment(t *testing.T, userID int64) *entities.Payment {
	t.Helper()
	ctx := context.Background()

	payment, err := application.WithServices(ctx, e.uowFactory, e.cfg, func(s *application.Services) (*entities.Payment, error) {
		return s.Payments.CreateMembershipPayment(ctx, userID, entities.PaymentMethodOnline)
	})
	require.NoError(t, err)
	return payment
}

func (e *integrationEnv) loadPayment(t *testing.T, paymentID int64) *entities.Payment {
	t.Helper()
	ctx := context.Background()

	payment, err := application.WithServices(ctx, e.uowFactory, e.cfg, func(s *application.Services) (*entities.Payment, error) {
		return s.Payments.GetPayment(ctx, paymentID)
	})
	require.NoError(t, err)
	return payment
}

func (e *integrationEnv) loadMembership(t *testing.T, userID int64) *entities.Membership {
	t.Helper()
	ctx := context.Background()

	membership, err := application.WithServices(ctx, e.uowFactory, e.cfg, func(s *application.Services) (*entities.Membership, error) {
		return s.Memberships.GetMembership(ctx, userID)
	})
	require.NoError(t, err)
	return membership
}
