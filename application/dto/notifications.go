package dto

// Notification kinds
const (
	NotificationPaymentReceipt = "payment_receipt"
	NotificationLowCredits     = "low_credits"
)

// NotificationDTO is a message for a member, delivered by whatever mailer listens on the bus
type NotificationDTO struct {
	Kind    string            `json:"kind"`
	UserID  int64             `json:"user_id"`
	Email   string            `json:"email"`
	Name    string            `json:"name"`
	Subject string            `json:"subject"`
	Fields  map[string]string `json:"fields,omitempty"`
}
