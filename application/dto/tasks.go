package dto

import (
	"encoding/json"
	"time"
)

// Background task names
const (
	TaskExpireMemberships  = "expire_memberships"
	TaskLowCreditsReminder = "low_credits_reminder"
	TaskPaymentReceipt     = "payment_receipt"
)

// TaskDTO is a unit of deferred work carried on the task queue
type TaskDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	ScheduledAt time.Time       `json:"scheduled_at"`
}

// ExpireMembershipsPayload selects the day the sweep runs for; zero means today
type ExpireMembershipsPayload struct {
	Today time.Time `json:"today,omitempty"`
}

// LowCreditsReminderPayload carries the threshold at or below which members are reminded
type LowCreditsReminderPayload struct {
	Threshold int64 `json:"threshold"`
}

// PaymentReceiptPayload identifies the completed payment to send a receipt for
type PaymentReceiptPayload struct {
	PaymentID int64 `json:"payment_id"`
}
