package repository

import (
	"context"
	"testing"

	"clubledger/domain/events"
	"clubledger/domain/testhelpers"
	"clubledger/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &testhelpers.MockTransactionalEventPublisher{}
	publisher.On("Publish", mock.Anything).Return(nil)
	publisher.On("Flush", mock.Anything).Return(nil)

	uow := CreateTestUnitOfWork(testDB.DB, publisher)
	require.NoError(t, uow.Begin(ctx))

	user := testutil.CreateTestUser("committed")
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	require.NoError(t, uow.EventBus().Publish(events.UserRegisteredEvent{UserID: user.ID}))
	require.NoError(t, uow.Commit())

	stored, err := NewUserRepository(testDB.DB).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)

	publisher.AssertCalled(t, "Flush", mock.Anything)
	publisher.AssertNotCalled(t, "Discard")

	assert.NoError(t, uow.Rollback(), "rollback after commit is a no-op")
}

func TestUnitOfWork_RollbackDiscardsEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := &testhelpers.MockTransactionalEventPublisher{}
	publisher.On("Discard").Return()

	uow := CreateTestUnitOfWork(testDB.DB, publisher)
	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx), "transaction already started")

	user := testutil.CreateTestUser("rolledback")
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	require.NoError(t, uow.Rollback())

	stored, err := NewUserRepository(testDB.DB).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	publisher.AssertCalled(t, "Discard")
	publisher.AssertNotCalled(t, "Flush", mock.Anything)
}

func TestUnitOfWork_GettersRequireBegin(t *testing.T) {
	t.Parallel()

	uow := CreateTestUnitOfWork(nil, &testhelpers.MockTransactionalEventPublisher{})
	assert.Panics(t, func() { uow.PaymentRepository() })
	assert.Error(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
}
