package application_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"clubledger/application"
	"clubledger/application/dto"
	"clubledger/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskWith(t *testing.T, name string, payload any) dto.TaskDTO {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return dto.TaskDTO{ID: "task-" + name, Name: name, Payload: raw, ScheduledAt: testToday}
}

func TestTaskHandler_PaymentReceipt(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()
	notifier := &application.MockNotifier{}
	handler := application.NewTaskHandler(env.uowFactory, env.cfg, notifier, 3)

	user := env.createUser(t, "robin")
	payment := env.createMembershipPayment(t, user.ID)

	t.Run("pending payment gets no receipt", func(t *testing.T) {
		require.NoError(t, handler.HandleTask(ctx, taskWith(t, dto.TaskPaymentReceipt, dto.PaymentReceiptPayload{PaymentID: payment.ID})))
		assert.Empty(t, notifier.Notifications)
	})

	t.Run("completed payment gets a receipt", func(t *testing.T) {
		gateway := application.NewPaymentGatewayHandler(env.uowFactory, env.cfg)
		require.NoError(t, gateway.HandleCallback(ctx, dto.PaymentGatewayCallbackDTO{
			PaymentID:     payment.ID,
			Status:        dto.GatewayStatusSucceeded,
			TransactionID: "sumup-tx-9",
		}))

		require.NoError(t, handler.HandleTask(ctx, taskWith(t, dto.TaskPaymentReceipt, dto.PaymentReceiptPayload{PaymentID: payment.ID})))

		require.Len(t, notifier.Notifications, 1)
		receipt := notifier.Notifications[0]
		assert.Equal(t, dto.NotificationPaymentReceipt, receipt.Kind)
		assert.Equal(t, user.Email, receipt.Email)
		assert.Equal(t, "sumup-tx-9", receipt.Fields["transaction_id"])
		assert.Equal(t, application.FormatAmount(payment.AmountCents, "EUR"), receipt.Fields["amount"])
	})

	t.Run("missing payment is dropped", func(t *testing.T) {
		assert.NoError(t, handler.HandleTask(ctx, taskWith(t, dto.TaskPaymentReceipt, dto.PaymentReceiptPayload{PaymentID: 424242})))
	})
}

func TestTaskHandler_LowCreditsReminder(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()
	notifier := &application.MockNotifier{}
	handler := application.NewTaskHandler(env.uowFactory, env.cfg, notifier, 3)

	low := env.createUser(t, "low")
	env.createMembership(t, &entities.Membership{
		UserID:     low.ID,
		StartDate:  entities.NewDate(2026, time.March, 1),
		ExpiryDate: entities.NewDate(2027, time.February, 28),
		Credits:    1,
		Status:     entities.MembershipStatusActive,
	})

	plenty := env.createUser(t, "plenty")
	env.createMembership(t, &entities.Membership{
		UserID:     plenty.ID,
		StartDate:  entities.NewDate(2026, time.March, 1),
		ExpiryDate: entities.NewDate(2027, time.February, 28),
		Credits:    15,
		Status:     entities.MembershipStatusActive,
	})

	// Empty payload falls back to the configured threshold
	require.NoError(t, handler.HandleTask(ctx, dto.TaskDTO{ID: "t-1", Name: dto.TaskLowCreditsReminder}))

	require.Len(t, notifier.Notifications, 1)
	assert.Equal(t, low.ID, notifier.Notifications[0].UserID)
	assert.Equal(t, "1", notifier.Notifications[0].Fields["remaining"])

	// An explicit threshold overrides it
	require.NoError(t, handler.HandleTask(ctx, taskWith(t, dto.TaskLowCreditsReminder, dto.LowCreditsReminderPayload{Threshold: 20})))
	assert.Len(t, notifier.Notifications, 3)
}

func TestTaskHandler_ExpireMemberships(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()
	handler := application.NewTaskHandler(env.uowFactory, env.cfg, &application.MockNotifier{}, 3)

	user := env.createUser(t, "lapsed")
	env.createMembership(t, &entities.Membership{
		UserID:     user.ID,
		StartDate:  entities.NewDate(2025, time.March, 1),
		ExpiryDate: entities.NewDate(2026, time.February, 28),
		Credits:    4,
		Status:     entities.MembershipStatusActive,
	})

	// A sweep dated on the expiry day leaves the membership usable
	require.NoError(t, handler.HandleTask(ctx, taskWith(t, dto.TaskExpireMemberships, dto.ExpireMembershipsPayload{
		Today: entities.NewDate(2026, time.February, 28),
	})))
	assert.Equal(t, entities.MembershipStatusActive, env.loadMembership(t, user.ID).Status)

	// Without a date the handler uses its clock
	require.NoError(t, handler.HandleTask(ctx, dto.TaskDTO{ID: "t-2", Name: dto.TaskExpireMemberships}))
	assert.Equal(t, entities.MembershipStatusExpired, env.loadMembership(t, user.ID).Status)
}

func TestTaskHandler_UnknownTask(t *testing.T) {
	t.Parallel()

	handler := application.NewTaskHandler(nil, application.ServiceConfig{}, &application.MockNotifier{}, 3)
	assert.NoError(t, handler.HandleTask(context.Background(), dto.TaskDTO{ID: "t-3", Name: "reticulate_splines"}))
}
