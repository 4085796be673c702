package interfaces

import (
	"context"
	"time"

	"clubledger/domain/entities"
)

// SettingsUpdate carries a partial settings change; nil fields are left as they are
type SettingsUpdate struct {
	MembershipYearStartMonth *int
	MembershipYearStartDay   *int
	AnnualMembershipCost     *int64
	MembershipShootsIncluded *int
	AdditionalShootCost      *int64
	CashPaymentInstructions  *string
	NewsEnabled              *bool
	EventsEnabled            *bool
	VisitorShootFee          *int64
	SumUpFeeBasisPoints      *int64
	ClearSumUpFee            bool // removes the processor fee percentage
}

// SettingsService defines the interface for the settings provider
type SettingsService interface {
	// Get returns the current settings, creating the default row if none exists
	Get(ctx context.Context) (*entities.ApplicationSettings, error)

	// Update validates and applies a partial update
	Update(ctx context.Context, update SettingsUpdate) (*entities.ApplicationSettings, error)
}

// ReconciliationResult describes the ledger effect of a confirmation
type ReconciliationResult struct {
	Payment    *entities.Payment
	Membership *entities.Membership // set for membership payments
	Credit     *entities.Credit     // set for credit payments
	// AlreadyApplied is true when the call was a repeat of an earlier identical confirmation
	AlreadyApplied bool
}

// ReconciliationService defines the interface for the payment state machine
type ReconciliationService interface {
	// Confirm completes a pending payment and applies exactly one ledger effect
	Confirm(ctx context.Context, paymentID int64, externalTransactionID, processor string) (*ReconciliationResult, error)

	// ConfirmCash completes a pending cash payment on behalf of an administrator
	ConfirmCash(ctx context.Context, paymentID, adminID int64) (*ReconciliationResult, error)

	// Fail marks a pending payment failed; no ledger effect
	Fail(ctx context.Context, paymentID int64, reason string) (*entities.Payment, error)

	// Cancel marks a pending payment cancelled; no ledger effect
	Cancel(ctx context.Context, paymentID int64) (*entities.Payment, error)
}

// PaymentService defines the interface for creating purchase intents
type PaymentService interface {
	// CreateMembershipPayment creates a pending payment for the annual fee
	CreateMembershipPayment(ctx context.Context, userID int64, method entities.PaymentMethod) (*entities.Payment, error)

	// CreateCreditPayment creates a pending payment for quantity shoot credits
	CreateCreditPayment(ctx context.Context, userID int64, quantity int64, method entities.PaymentMethod) (*entities.Payment, error)

	// CreateCreditPaymentForAmount creates a pending credits payment for an exact amount
	CreateCreditPaymentForAmount(ctx context.Context, userID int64, amountCents int64, method entities.PaymentMethod) (*entities.Payment, error)

	// GetPayment returns a payment by ID
	GetPayment(ctx context.Context, paymentID int64) (*entities.Payment, error)

	// ListUserPayments returns the most recent payments of a user
	ListUserPayments(ctx context.Context, userID int64, limit int) ([]*entities.Payment, error)

	// ListPendingCashPayments returns cash payments waiting for an administrator
	ListPendingCashPayments(ctx context.Context) ([]*entities.Payment, error)
}

// DeductionResult describes how an attendance was paid for
type DeductionResult struct {
	FromAllowance bool             // taken from the membership allowance
	Credit        *entities.Credit // ledger row, nil when taken from the allowance
	Balance       int64            // credit ledger balance after the deduction
}

// CreditService defines the interface for credit accounting
type CreditService interface {
	// Balance returns the sum of a user's credit rows
	Balance(ctx context.Context, userID int64) (int64, error)

	// DeductForAttendance pays for one shoot from allowance first, then the ledger
	DeductForAttendance(ctx context.Context, userID, shootID int64, today time.Time) (*DeductionResult, error)

	// Adjust records a manual administrator correction
	Adjust(ctx context.Context, userID, amount, adminID int64, reason string) (*entities.Credit, error)

	// History returns the most recent ledger rows of a user
	History(ctx context.Context, userID int64, limit int) ([]*entities.Credit, error)

	// LowStanding returns active members whose allowance plus balance is at most threshold
	LowStanding(ctx context.Context, threshold int64, today time.Time) ([]*entities.CreditStanding, error)
}

// AccessPolicyService defines the interface for role based access control
type AccessPolicyService interface {
	// HasPermission reports whether permission is granted through any of the user's roles
	HasPermission(ctx context.Context, userID int64, permission string) (bool, error)

	// UserPermissions returns the effective permission names of a user
	UserPermissions(ctx context.Context, userID int64) ([]string, error)

	// AssignRole gives a role to a user; assigning a held role is a no-op
	AssignRole(ctx context.Context, userID int64, roleName string) error

	// RevokeRole removes a role from a user; revoking an unheld role is a no-op
	RevokeRole(ctx context.Context, userID int64, roleName string) error

	// CreateRole creates a role
	CreateRole(ctx context.Context, name, description string) (*entities.Role, error)

	// DeleteRole deletes a role with all its user and permission links
	DeleteRole(ctx context.Context, roleName string) error

	// ListRoles returns all roles
	ListRoles(ctx context.Context) ([]*entities.Role, error)

	// CreatePermission creates a permission
	CreatePermission(ctx context.Context, name, description string) (*entities.Permission, error)

	// DeletePermission deletes a permission with all its role links
	DeletePermission(ctx context.Context, permissionName string) error

	// GrantPermissionToRole links a permission to a role; idempotent
	GrantPermissionToRole(ctx context.Context, roleName, permissionName string) error

	// RevokePermissionFromRole unlinks a permission from a role; idempotent
	RevokePermissionFromRole(ctx context.Context, roleName, permissionName string) error
}

// MembershipService defines the interface for membership lifecycle operations
type MembershipService interface {
	// GetMembership returns the membership of a user
	GetMembership(ctx context.Context, userID int64) (*entities.Membership, error)

	// ExpireMemberships moves active memberships past their expiry to expired
	ExpireMemberships(ctx context.Context, today time.Time) ([]*entities.Membership, error)
}

// ShootService defines the interface for shoots and attendance
type ShootService interface {
	// CreateShoot schedules a shoot
	CreateShoot(ctx context.Context, date time.Time, location entities.ShootLocation, description *string) (*entities.Shoot, error)

	// RecordAttendance records a member at a shoot and pays for it
	RecordAttendance(ctx context.Context, shootID, userID int64, today time.Time) (*DeductionResult, error)

	// AddVisitor records a walk-in visitor and books the visitor fee
	AddVisitor(ctx context.Context, visitor *entities.ShootVisitor, recordedByID *int64) error

	// ListShoots returns shoots dated within [from, to]
	ListShoots(ctx context.Context, from, to time.Time) ([]*entities.Shoot, error)
}

// Statement summarises club bookkeeping for a period
type Statement struct {
	From              time.Time
	To                time.Time
	TotalIncome       int64
	TotalExpense      int64
	Net               int64
	IncomeByCategory  map[string]int64
	ExpenseByCategory map[string]int64
	Transactions      []*entities.FinancialTransaction
}

// FinanceService defines the interface for club bookkeeping
type FinanceService interface {
	// RecordTransaction validates and appends a manual bookkeeping row
	RecordTransaction(ctx context.Context, transaction *entities.FinancialTransaction) error

	// RecordOffset appends a row reversing an earlier one
	RecordOffset(ctx context.Context, originalID int64, createdByID *int64, reason string) (*entities.FinancialTransaction, error)

	// RecordPaymentIncome books a completed payment and any processor fee
	RecordPaymentIncome(ctx context.Context, payment *entities.Payment, settings *entities.ApplicationSettings, date time.Time) ([]*entities.FinancialTransaction, error)

	// RecordVisitorFee books the visitor fee for a walk-in
	RecordVisitorFee(ctx context.Context, visitor *entities.ShootVisitor, settings *entities.ApplicationSettings, date time.Time, createdByID *int64) (*entities.FinancialTransaction, error)

	// GenerateStatement totals bookkeeping rows dated within [from, to]
	GenerateStatement(ctx context.Context, from, to time.Time) (*Statement, error)
}

// NewUser carries registration input
type NewUser struct {
	Name                string
	Email               string
	Phone               *string
	Password            string
	Qualification       string
	QualificationDetail *string
}

// UserService defines the interface for account operations
type UserService interface {
	// Register creates an account with a hashed password
	Register(ctx context.Context, input NewUser) (*entities.User, error)

	// GetUser returns a user by ID
	GetUser(ctx context.Context, userID int64) (*entities.User, error)

	// VerifyPassword returns the user when email and password match an active account
	VerifyPassword(ctx context.Context, email, password string) (*entities.User, error)

	// SetActive activates or deactivates an account
	SetActive(ctx context.Context, userID int64, active bool) error
}

// ContentService defines the interface for member-facing news and events
type ContentService interface {
	// PublishedNews returns news when the news feature is enabled
	PublishedNews(ctx context.Context, asOf time.Time, limit int) ([]*entities.News, error)

	// UpcomingEvents returns events when the events feature is enabled
	UpcomingEvents(ctx context.Context, from time.Time, limit int) ([]*entities.Event, error)
}
