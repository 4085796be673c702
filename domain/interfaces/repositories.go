package interfaces

import (
	"context"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/events"
)

// Lookups return (nil, nil) when the row does not exist; services turn that
// into a NotFoundError.

// UserRepository defines the interface for user account data access
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// GetByEmail retrieves a user by email, case-insensitively
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Create inserts a new user and fills in ID and timestamps
	Create(ctx context.Context, user *entities.User) error

	// SetActive toggles the active flag
	SetActive(ctx context.Context, id int64, active bool) error

	// ListActive returns all active users ordered by name
	ListActive(ctx context.Context) ([]*entities.User, error)
}

// SettingsRepository defines the interface for the application settings singleton
type SettingsRepository interface {
	// Get returns the settings row
	Get(ctx context.Context) (*entities.ApplicationSettings, error)

	// InsertDefaults creates the settings row if it does not exist yet
	InsertDefaults(ctx context.Context, defaults *entities.ApplicationSettings) error

	// Update writes every field of the settings row and stamps updated_at
	Update(ctx context.Context, settings *entities.ApplicationSettings) error
}

// MembershipRepository defines the interface for membership data access
type MembershipRepository interface {
	// GetByUserID retrieves the membership of a user
	GetByUserID(ctx context.Context, userID int64) (*entities.Membership, error)

	// GetByUserIDForUpdate retrieves the membership and locks the row until the transaction ends
	GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.Membership, error)

	// Create inserts a membership row
	Create(ctx context.Context, membership *entities.Membership) error

	// UpdatePeriod writes start date, expiry date, allowance and status
	UpdatePeriod(ctx context.Context, membership *entities.Membership) error

	// ConsumeAllowance takes one shoot from an active, unexpired membership.
	// Returns false when there is no allowance left to take.
	ConsumeAllowance(ctx context.Context, userID int64, today time.Time) (bool, error)

	// ExpireBefore moves every active membership whose expiry is before today to expired
	ExpireBefore(ctx context.Context, today time.Time) ([]*entities.Membership, error)
}

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	// Create inserts a pending payment
	Create(ctx context.Context, payment *entities.Payment) error

	// GetByID retrieves a payment by ID
	GetByID(ctx context.Context, id int64) (*entities.Payment, error)

	// GetByIDForUpdate retrieves a payment and locks the row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Payment, error)

	// GetByExternalTransactionID retrieves a payment by gateway transaction id
	GetByExternalTransactionID(ctx context.Context, externalTransactionID string) (*entities.Payment, error)

	// MarkCompleted moves a pending payment to completed. Returns false if it was not pending.
	MarkCompleted(ctx context.Context, id int64, externalTransactionID, processor string) (bool, error)

	// MarkFailed moves a pending payment to failed. Returns false if it was not pending.
	MarkFailed(ctx context.Context, id int64, reason string) (bool, error)

	// MarkCancelled moves a pending payment to cancelled. Returns false if it was not pending.
	MarkCancelled(ctx context.Context, id int64) (bool, error)

	// ListByUser returns the most recent payments of a user
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Payment, error)

	// ListPending returns pending payments made with the given method, oldest first
	ListPending(ctx context.Context, method entities.PaymentMethod) ([]*entities.Payment, error)
}

// CreditRepository defines the interface for the credit ledger
type CreditRepository interface {
	// Create appends a ledger row
	Create(ctx context.Context, credit *entities.Credit) error

	// GetBalance returns the sum of a user's credit rows
	GetBalance(ctx context.Context, userID int64) (int64, error)

	// LockUserLedger serialises ledger writes for one user until the transaction ends
	LockUserLedger(ctx context.Context, userID int64) error

	// GetByPaymentID returns the grant created for a payment
	GetByPaymentID(ctx context.Context, paymentID int64) (*entities.Credit, error)

	// ListByUser returns the most recent ledger rows of a user
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Credit, error)

	// ListLowStanding returns active members whose allowance plus balance is at most threshold
	ListLowStanding(ctx context.Context, threshold int64, today time.Time) ([]*entities.CreditStanding, error)
}

// RBACRepository defines the interface for roles, permissions and their associations
type RBACRepository interface {
	// GetRoleByName retrieves a role by its unique name
	GetRoleByName(ctx context.Context, name string) (*entities.Role, error)

	// CreateRole inserts a role
	CreateRole(ctx context.Context, role *entities.Role) error

	// DeleteRole deletes a role; associations are removed by cascade. Returns false if absent.
	DeleteRole(ctx context.Context, roleID int64) (bool, error)

	// ListRoles returns all roles ordered by name
	ListRoles(ctx context.Context) ([]*entities.Role, error)

	// GetPermissionByName retrieves a permission by its unique name
	GetPermissionByName(ctx context.Context, name string) (*entities.Permission, error)

	// CreatePermission inserts a permission
	CreatePermission(ctx context.Context, permission *entities.Permission) error

	// DeletePermission deletes a permission; associations are removed by cascade. Returns false if absent.
	DeletePermission(ctx context.Context, permissionID int64) (bool, error)

	// AssignRole links a user to a role. Returns false if the link already existed.
	AssignRole(ctx context.Context, userID, roleID int64) (bool, error)

	// RevokeRole unlinks a user from a role. Returns false if there was no link.
	RevokeRole(ctx context.Context, userID, roleID int64) (bool, error)

	// GrantPermission links a permission to a role. Returns false if the link already existed.
	GrantPermission(ctx context.Context, roleID, permissionID int64) (bool, error)

	// RevokePermission unlinks a permission from a role. Returns false if there was no link.
	RevokePermission(ctx context.Context, roleID, permissionID int64) (bool, error)

	// UserHasPermission reports whether any of the user's roles carries the permission
	UserHasPermission(ctx context.Context, userID int64, permissionName string) (bool, error)

	// GetUserPermissions returns the distinct permission names reachable through the user's roles
	GetUserPermissions(ctx context.Context, userID int64) ([]string, error)

	// GetUserRoles returns the roles assigned to a user
	GetUserRoles(ctx context.Context, userID int64) ([]*entities.Role, error)
}

// ShootRepository defines the interface for shoots, attendance and visitors
type ShootRepository interface {
	// Create inserts a shoot
	Create(ctx context.Context, shoot *entities.Shoot) error

	// GetByID retrieves a shoot by ID
	GetByID(ctx context.Context, id int64) (*entities.Shoot, error)

	// ListBetween returns shoots dated within [from, to], newest first
	ListBetween(ctx context.Context, from, to time.Time) ([]*entities.Shoot, error)

	// AddAttendee records a member at a shoot. Returns false if already recorded.
	AddAttendee(ctx context.Context, shootID, userID int64) (bool, error)

	// ListAttendees returns attendance rows for a shoot
	ListAttendees(ctx context.Context, shootID int64) ([]*entities.UserShoot, error)

	// AddVisitor inserts a visitor row
	AddVisitor(ctx context.Context, visitor *entities.ShootVisitor) error

	// ListVisitors returns visitors of a shoot
	ListVisitors(ctx context.Context, shootID int64) ([]*entities.ShootVisitor, error)
}

// FinancialTransactionRepository defines the interface for club bookkeeping rows
type FinancialTransactionRepository interface {
	// Create appends a bookkeeping row
	Create(ctx context.Context, transaction *entities.FinancialTransaction) error

	// GetByID retrieves a bookkeeping row
	GetByID(ctx context.Context, id int64) (*entities.FinancialTransaction, error)

	// ListBetween returns rows dated within [from, to], oldest first
	ListBetween(ctx context.Context, from, to time.Time) ([]*entities.FinancialTransaction, error)

	// SumByCategory returns per type and category totals for rows dated within [from, to]
	SumByCategory(ctx context.Context, from, to time.Time) ([]*entities.CategoryTotal, error)
}

// ContentRepository defines the interface for news and events
type ContentRepository interface {
	// CreateNews inserts a news article
	CreateNews(ctx context.Context, news *entities.News) error

	// ListPublishedNews returns published news with a publish date on or before asOf
	ListPublishedNews(ctx context.Context, asOf time.Time, limit int) ([]*entities.News, error)

	// CreateEvent inserts an event
	CreateEvent(ctx context.Context, event *entities.Event) error

	// ListUpcomingEvents returns published events starting at or after from
	ListUpcomingEvents(ctx context.Context, from time.Time, limit int) ([]*entities.Event, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding transaction finishes
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all buffered events; called after commit
	Flush(ctx context.Context) error

	// Discard drops all buffered events; called on rollback
	Discard()
}
