package entities

import "time"

// Reasons written on system-issued credit rows
const (
	CreditReasonShootAttendance = "shoot attendance"
	CreditReasonPurchase        = "credit purchase"
)

// Credit is a signed ledger entry: positive grants, negative consumption or correction.
// A user's balance is the sum of their rows.
type Credit struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	Amount       int64     `db:"amount"`
	PaymentID    *int64    `db:"payment_id"`
	AdjustedByID *int64    `db:"adjusted_by_id"`
	Reason       *string   `db:"reason"`
	CreatedAt    time.Time `db:"created_at"`
}

// IsGrant returns true for entries that add credits
func (c *Credit) IsGrant() bool {
	return c.Amount > 0
}

// IsManualAdjustment returns true for entries made by an administrator
func (c *Credit) IsManualAdjustment() bool {
	return c.AdjustedByID != nil
}

// CreditStanding summarises what a member can still spend on shoots
type CreditStanding struct {
	UserID    int64  `db:"user_id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Allowance int    `db:"allowance"`
	Balance   int64  `db:"balance"`
}

// Total returns membership allowance plus purchased credit balance
func (s *CreditStanding) Total() int64 {
	return int64(s.Allowance) + s.Balance
}
