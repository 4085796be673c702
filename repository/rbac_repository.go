package repository

import (
	"context"
	"fmt"

	"clubledger/database"
	"clubledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

// RBACRepository implements the RBACRepository interface over roles,
// permissions, user_roles and role_permissions. Association rows are
// removed by ON DELETE CASCADE when either side is deleted.
type RBACRepository struct {
	q Queryable
}

// NewRBACRepository creates a new RBAC repository
func NewRBACRepository(db *database.DB) *RBACRepository {
	return &RBACRepository{q: db.Pool}
}

// NewRBACRepositoryScoped creates a new RBAC repository bound to a transaction
func NewRBACRepositoryScoped(tx Queryable) *RBACRepository {
	return &RBACRepository{q: tx}
}

// GetRoleByName retrieves a role by name
func (r *RBACRepository) GetRoleByName(ctx context.Context, name string) (*entities.Role, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM roles WHERE name = $1`

	var role entities.Role
	err := r.q.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role %q: %w", name, err)
	}

	return &role, nil
}

// CreateRole inserts a role
func (r *RBACRepository) CreateRole(ctx context.Context, role *entities.Role) error {
	query := `
		INSERT INTO roles (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	if err := r.q.QueryRow(ctx, query, role.Name, role.Description).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create role %q: %w", role.Name, err)
	}
	return nil
}

// DeleteRole deletes a role and, by cascade, its user and permission links
func (r *RBACRepository) DeleteRole(ctx context.Context, roleID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to delete role %d: %w", roleID, err)
	}
	return result.RowsAffected() == 1, nil
}

// ListRoles returns all roles ordered by name
func (r *RBACRepository) ListRoles(ctx context.Context) ([]*entities.Role, error) {
	return r.queryRoles(ctx, `SELECT id, name, description, created_at, updated_at FROM roles ORDER BY name`)
}

// GetPermissionByName retrieves a permission by name
func (r *RBACRepository) GetPermissionByName(ctx context.Context, name string) (*entities.Permission, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM permissions WHERE name = $1`

	var p entities.Permission
	err := r.q.QueryRow(ctx, query, name).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get permission %q: %w", name, err)
	}

	return &p, nil
}

// CreatePermission inserts a permission
func (r *RBACRepository) CreatePermission(ctx context.Context, p *entities.Permission) error {
	query := `
		INSERT INTO permissions (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	if err := r.q.QueryRow(ctx, query, p.Name, p.Description).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create permission %q: %w", p.Name, err)
	}
	return nil
}

// DeletePermission deletes a permission and, by cascade, its role links
func (r *RBACRepository) DeletePermission(ctx context.Context, permissionID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, permissionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete permission %d: %w", permissionID, err)
	}
	return result.RowsAffected() == 1, nil
}

// AssignRole links a user to a role
func (r *RBACRepository) AssignRole(ctx context.Context, userID, roleID int64) (bool, error) {
	query := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	result, err := r.q.Exec(ctx, query, userID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to assign role %d to user %d: %w", roleID, userID, err)
	}
	return result.RowsAffected() == 1, nil
}

// RevokeRole unlinks a user from a role
func (r *RBACRepository) RevokeRole(ctx context.Context, userID, roleID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to revoke role %d from user %d: %w", roleID, userID, err)
	}
	return result.RowsAffected() == 1, nil
}

// GrantPermission links a permission to a role
func (r *RBACRepository) GrantPermission(ctx context.Context, roleID, permissionID int64) (bool, error) {
	query := `INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	result, err := r.q.Exec(ctx, query, roleID, permissionID)
	if err != nil {
		return false, fmt.Errorf("failed to grant permission %d to role %d: %w", permissionID, roleID, err)
	}
	return result.RowsAffected() == 1, nil
}

// RevokePermission unlinks a permission from a role
func (r *RBACRepository) RevokePermission(ctx context.Context, roleID, permissionID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`, roleID, permissionID)
	if err != nil {
		return false, fmt.Errorf("failed to revoke permission %d from role %d: %w", permissionID, roleID, err)
	}
	return result.RowsAffected() == 1, nil
}

// UserHasPermission reports whether any role of the user carries the permission
func (r *RBACRepository) UserHasPermission(ctx context.Context, userID int64, permissionName string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM user_roles ur
			JOIN role_permissions rp ON rp.role_id = ur.role_id
			JOIN permissions p ON p.id = rp.permission_id
			WHERE ur.user_id = $1 AND p.name = $2
		)
	`

	var has bool
	if err := r.q.QueryRow(ctx, query, userID, permissionName).Scan(&has); err != nil {
		return false, fmt.Errorf("failed to check permission %q for user %d: %w", permissionName, userID, err)
	}
	return has, nil
}

// GetUserPermissions returns the distinct permission names reachable through the user's roles
func (r *RBACRepository) GetUserPermissions(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT DISTINCT p.name
		FROM user_roles ur
		JOIN role_permissions rp ON rp.role_id = ur.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1
		ORDER BY p.name
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan permission name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// GetUserRoles returns the roles assigned to a user
func (r *RBACRepository) GetUserRoles(ctx context.Context, userID int64) ([]*entities.Role, error) {
	query := `
		SELECT r.id, r.name, r.description, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`
	return r.queryRoles(ctx, query, userID)
}

func (r *RBACRepository) queryRoles(ctx context.Context, query string, args ...any) ([]*entities.Role, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []*entities.Role
	for rows.Next() {
		var role entities.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, &role)
	}

	return roles, rows.Err()
}
