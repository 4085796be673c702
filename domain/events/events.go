package events

import "time"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePaymentCompleted    EventType = "payment_completed"
	EventTypePaymentFailed       EventType = "payment_failed"
	EventTypePaymentCancelled    EventType = "payment_cancelled"
	EventTypeMembershipActivated EventType = "membership_activated"
	EventTypeMembershipExpired   EventType = "membership_expired"
	EventTypeCreditChanged       EventType = "credit_changed"
	EventTypeRoleAssignment      EventType = "role_assignment"
	EventTypeSettingsUpdated     EventType = "settings_updated"
	EventTypeUserRegistered      EventType = "user_registered"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PaymentCompletedEvent is emitted once a payment is confirmed and its ledger effect applied
type PaymentCompletedEvent struct {
	PaymentID             int64  `json:"payment_id"`
	UserID                int64  `json:"user_id"`
	AmountCents           int64  `json:"amount_cents"`
	Currency              string `json:"currency"`
	PaymentType           string `json:"payment_type"`
	PaymentMethod         string `json:"payment_method"`
	ExternalTransactionID string `json:"external_transaction_id"`
}

func (e PaymentCompletedEvent) Type() EventType {
	return EventTypePaymentCompleted
}

// PaymentFailedEvent is emitted when a pending payment is marked failed
type PaymentFailedEvent struct {
	PaymentID int64  `json:"payment_id"`
	UserID    int64  `json:"user_id"`
	Reason    string `json:"reason"`
}

func (e PaymentFailedEvent) Type() EventType {
	return EventTypePaymentFailed
}

// PaymentCancelledEvent is emitted when a pending payment is cancelled
type PaymentCancelledEvent struct {
	PaymentID int64 `json:"payment_id"`
	UserID    int64 `json:"user_id"`
}

func (e PaymentCancelledEvent) Type() EventType {
	return EventTypePaymentCancelled
}

// MembershipActivatedEvent is emitted when a membership starts a new period
type MembershipActivatedEvent struct {
	MembershipID int64     `json:"membership_id"`
	UserID       int64     `json:"user_id"`
	PaymentID    int64     `json:"payment_id"`
	StartDate    time.Time `json:"start_date"`
	ExpiryDate   time.Time `json:"expiry_date"`
	Credits      int       `json:"credits"`
	Renewal      bool      `json:"renewal"`
}

func (e MembershipActivatedEvent) Type() EventType {
	return EventTypeMembershipActivated
}

// MembershipExpiredEvent is emitted by the expiry sweep
type MembershipExpiredEvent struct {
	MembershipID int64     `json:"membership_id"`
	UserID       int64     `json:"user_id"`
	ExpiryDate   time.Time `json:"expiry_date"`
}

func (e MembershipExpiredEvent) Type() EventType {
	return EventTypeMembershipExpired
}

// CreditChangeKind distinguishes why a credit row was written
type CreditChangeKind string

const (
	CreditChangePurchase   CreditChangeKind = "purchase"
	CreditChangeAttendance CreditChangeKind = "attendance"
	CreditChangeAdjustment CreditChangeKind = "adjustment"
)

// CreditChangedEvent is emitted for every credit ledger row
type CreditChangedEvent struct {
	CreditID     int64            `json:"credit_id"`
	UserID       int64            `json:"user_id"`
	Amount       int64            `json:"amount"`
	NewBalance   int64            `json:"new_balance"`
	Kind         CreditChangeKind `json:"kind"`
	PaymentID    *int64           `json:"payment_id,omitempty"`
	AdjustedByID *int64           `json:"adjusted_by_id,omitempty"`
}

func (e CreditChangedEvent) Type() EventType {
	return EventTypeCreditChanged
}

// RoleAssignmentEvent is emitted when a role is assigned to or revoked from a user
type RoleAssignmentEvent struct {
	UserID   int64  `json:"user_id"`
	RoleID   int64  `json:"role_id"`
	RoleName string `json:"role_name"`
	Assigned bool   `json:"assigned"`
}

func (e RoleAssignmentEvent) Type() EventType {
	return EventTypeRoleAssignment
}

// SettingsUpdatedEvent is emitted after an administrative settings change
type SettingsUpdatedEvent struct {
	ChangedFields []string `json:"changed_fields"`
}

func (e SettingsUpdatedEvent) Type() EventType {
	return EventTypeSettingsUpdated
}

// UserRegisteredEvent is emitted when an account is created
type UserRegisteredEvent struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

func (e UserRegisteredEvent) Type() EventType {
	return EventTypeUserRegistered
}
