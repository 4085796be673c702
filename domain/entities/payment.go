package entities

import "time"

// PaymentStatus represents the state of a payment in its lifecycle
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsTerminal returns true once the payment can no longer change
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// CanTransitionTo reports whether a payment in this status may move to next.
// Only pending payments move, and only into a terminal status.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return s == PaymentStatusPending && next.IsTerminal()
}

// PaymentType identifies which ledger effect a completed payment produces
type PaymentType string

const (
	PaymentTypeMembership PaymentType = "membership"
	PaymentTypeCredits    PaymentType = "credits"
)

// IsValid reports whether the payment type is known
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeMembership || t == PaymentTypeCredits
}

// PaymentMethod identifies who may confirm a payment
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
)

// IsValid reports whether the payment method is known
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodOnline
}

// Payment processors recorded on completed payments
const (
	ProcessorSumUp = "sumup"
	ProcessorCash  = "cash"
)

// Payment records money owed or received from a user
type Payment struct {
	ID                    int64         `db:"id"`
	UserID                int64         `db:"user_id"`
	AmountCents           int64         `db:"amount_cents"`
	Currency              string        `db:"currency"`
	Type                  PaymentType   `db:"payment_type"`
	Method                PaymentMethod `db:"payment_method"`
	Status                PaymentStatus `db:"status"`
	Description           string        `db:"description"`
	CreditQuantity        *int64        `db:"credit_quantity"` // credits bought, fixed at purchase time
	Processor             *string       `db:"payment_processor"`
	ExternalTransactionID *string       `db:"external_transaction_id"`
	FailureReason         *string       `db:"failure_reason"`
	CreatedAt             time.Time     `db:"created_at"`
	UpdatedAt             time.Time     `db:"updated_at"`
}

// HasExternalTransactionID reports whether the payment was completed with the given id
func (p *Payment) HasExternalTransactionID(id string) bool {
	return p.ExternalTransactionID != nil && *p.ExternalTransactionID == id
}
