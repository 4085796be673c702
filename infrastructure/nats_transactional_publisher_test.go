package infrastructure

import (
	"context"
	"errors"
	"testing"

	"clubledger/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestNATSTransactionalPublisher_FlushPublishesInOrder(t *testing.T) {
	t.Parallel()

	mockPublisher := &MockEventPublisher{}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	first := events.PaymentCompletedEvent{PaymentID: 1, UserID: 10, AmountCents: 10000}
	second := events.MembershipActivatedEvent{MembershipID: 3, UserID: 10, PaymentID: 1, Credits: 20}

	require.NoError(t, transPublisher.Publish(first))
	require.NoError(t, transPublisher.Publish(second))

	// Nothing leaves before commit
	assert.Empty(t, mockPublisher.PublishedEvents)

	require.NoError(t, transPublisher.Flush(context.Background()))

	require.Len(t, mockPublisher.PublishedEvents, 2)
	assert.Equal(t, first, mockPublisher.PublishedEvents[0])
	assert.Equal(t, second, mockPublisher.PublishedEvents[1])

	// A second flush has nothing left to send
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 2)
}

func TestNATSTransactionalPublisher_Discard(t *testing.T) {
	t.Parallel()

	mockPublisher := &MockEventPublisher{}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.PaymentFailedEvent{PaymentID: 7, Reason: "declined"}))
	transPublisher.Discard()

	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Empty(t, mockPublisher.PublishedEvents)
}

func TestNATSTransactionalPublisher_FlushIgnoresPublishErrors(t *testing.T) {
	t.Parallel()

	mockPublisher := &MockEventPublisher{PublishError: errors.New("nats down")}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.CreditChangedEvent{CreditID: 1, Amount: 5}))

	// The database transaction has already committed, so flush never fails
	assert.NoError(t, transPublisher.Flush(context.Background()))
	assert.Empty(t, transPublisher.pending)
}
