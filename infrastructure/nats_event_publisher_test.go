package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"clubledger/domain/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

type fakeMessagePublisher struct {
	messages []publishedMessage
	err      error
}

func (f *fakeMessagePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, publishedMessage{subject: subject, data: data})
	return nil
}

func TestNATSEventPublisher_PublishesEnvelope(t *testing.T) {
	t.Parallel()

	client := &fakeMessagePublisher{}
	publisher := NewNATSEventPublisher(client, NewEventSubjectMapper())

	event := events.PaymentCompletedEvent{
		PaymentID:             42,
		UserID:                7,
		AmountCents:           10000,
		Currency:              "EUR",
		PaymentType:           "membership",
		PaymentMethod:         "online",
		ExternalTransactionID: "tx-42",
	}
	require.NoError(t, publisher.Publish(event))

	require.Len(t, client.messages, 1)
	assert.Equal(t, "clubledger.payments.completed", client.messages[0].subject)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(client.messages[0].data, &envelope))
	assert.Equal(t, string(events.EventTypePaymentCompleted), envelope.EventType)
	assert.Equal(t, clientName, envelope.SourceService)
	_, err := uuid.Parse(envelope.EventID)
	assert.NoError(t, err)

	var payload events.PaymentCompletedEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, event, payload)
}

func TestNATSEventPublisher_LocalHandlers(t *testing.T) {
	t.Parallel()

	client := &fakeMessagePublisher{}
	publisher := NewNATSEventPublisher(client, NewEventSubjectMapper())

	var received []events.Event
	publisher.RegisterLocalHandler(events.EventTypeCreditChanged, func(ctx context.Context, event events.Event) error {
		received = append(received, event)
		return nil
	})
	publisher.RegisterLocalHandler(events.EventTypeCreditChanged, func(ctx context.Context, event events.Event) error {
		return errors.New("handler failure does not stop publishing")
	})

	require.NoError(t, publisher.Publish(events.CreditChangedEvent{CreditID: 1, Amount: -1}))
	require.NoError(t, publisher.Publish(events.UserRegisteredEvent{UserID: 3}))

	assert.Len(t, received, 1)
	assert.Len(t, client.messages, 2)
}

func TestNATSEventPublisher_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no stream bound is not an error", func(t *testing.T) {
		t.Parallel()
		client := &fakeMessagePublisher{err: errors.New("nats: no response from stream")}
		publisher := NewNATSEventPublisher(client, NewEventSubjectMapper())
		assert.NoError(t, publisher.Publish(events.SettingsUpdatedEvent{}))
	})

	t.Run("other publish errors propagate", func(t *testing.T) {
		t.Parallel()
		client := &fakeMessagePublisher{err: errors.New("connection closed")}
		publisher := NewNATSEventPublisher(client, NewEventSubjectMapper())
		assert.Error(t, publisher.Publish(events.SettingsUpdatedEvent{}))
	})
}
