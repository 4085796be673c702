package entities

import "time"

// Role groups permissions and is assigned to users
type Role struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Permission is a named capability granted to roles, never directly to users
type Permission struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// UserRole is a row of the user_roles join table
type UserRole struct {
	UserID    int64     `db:"user_id"`
	RoleID    int64     `db:"role_id"`
	CreatedAt time.Time `db:"created_at"`
}

// RolePermission is a row of the role_permissions join table
type RolePermission struct {
	RoleID       int64     `db:"role_id"`
	PermissionID int64     `db:"permission_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// Permission names seeded by the schema migrations
const (
	PermissionAdminDashboardView = "admin.dashboard.view"
	PermissionSettingsRead       = "settings.read"
	PermissionSettingsWrite      = "settings.write"
	PermissionEventsRead         = "events.read"
	PermissionEventsWrite        = "events.write"
	PermissionNewsRead           = "news.read"
	PermissionNewsWrite          = "news.write"
	PermissionShootsRead         = "shoots.read"
	PermissionShootsWrite        = "shoots.write"
	PermissionMembersRead        = "members.read"
	PermissionMembersWrite       = "members.write"
	PermissionCreditsAdjust      = "credits.adjust"
	PermissionPaymentsConfirm    = "payments.confirm"
	PermissionFinanceRead        = "finance.read"
	PermissionFinanceWrite       = "finance.write"
	PermissionRolesManage        = "roles.manage"
)

// Role names seeded by the schema migrations
const (
	RoleAdmin             = "Admin"
	RoleMembershipManager = "Membership Manager"
	RoleContentManager    = "Content Manager"
	RoleSettingsManager   = "Settings Manager"
)
