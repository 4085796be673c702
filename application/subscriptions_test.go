package application_test

import (
	"context"
	"errors"
	"testing"

	"clubledger/application"
	"clubledger/application/dto"
	"clubledger/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistrar struct {
	handlers map[events.EventType][]func(context.Context, events.Event) error
}

func (f *fakeRegistrar) RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error) {
	if f.handlers == nil {
		f.handlers = make(map[events.EventType][]func(context.Context, events.Event) error)
	}
	f.handlers[eventType] = append(f.handlers[eventType], handler)
}

func (f *fakeRegistrar) dispatch(event events.Event) error {
	for _, handler := range f.handlers[event.Type()] {
		if err := handler(context.Background(), event); err != nil {
			return err
		}
	}
	return nil
}

func TestRegisterApplicationSubscriptions(t *testing.T) {
	t.Parallel()

	registrar := &fakeRegistrar{}
	scheduler := &application.MockTaskScheduler{}
	application.RegisterApplicationSubscriptions(registrar, scheduler)

	require.NoError(t, registrar.dispatch(events.PaymentCompletedEvent{PaymentID: 31, UserID: 4, AmountCents: 1500}))
	require.NoError(t, registrar.dispatch(events.CreditChangedEvent{CreditID: 2, Kind: events.CreditChangePurchase}))
	require.NoError(t, registrar.dispatch(events.PaymentFailedEvent{PaymentID: 32}))
	require.NoError(t, registrar.dispatch(events.PaymentCancelledEvent{PaymentID: 33}))

	require.Len(t, scheduler.Tasks, 1)
	assert.Equal(t, dto.TaskPaymentReceipt, scheduler.Tasks[0].Name)
	assert.Equal(t, dto.PaymentReceiptPayload{PaymentID: 31}, scheduler.Tasks[0].Payload)
}

func TestRegisterApplicationSubscriptions_ScheduleFailure(t *testing.T) {
	t.Parallel()

	registrar := &fakeRegistrar{}
	application.RegisterApplicationSubscriptions(registrar, &application.MockTaskScheduler{Error: errors.New("queue down")})

	assert.Error(t, registrar.dispatch(events.PaymentCompletedEvent{PaymentID: 31}))
}
