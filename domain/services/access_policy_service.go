package services

import (
	"context"
	"fmt"
	"strings"

	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/events"
	"clubledger/domain/interfaces"
	"clubledger/domain/utils"

	log "github.com/sirupsen/logrus"
)

type accessPolicyService struct {
	rbacRepo       interfaces.RBACRepository
	userRepo       interfaces.UserRepository
	eventPublisher interfaces.EventPublisher
}

// NewAccessPolicyService creates a new role based access control service.
// Permissions reach users only through roles.
func NewAccessPolicyService(rbacRepo interfaces.RBACRepository, userRepo interfaces.UserRepository, eventPublisher interfaces.EventPublisher) interfaces.AccessPolicyService {
	return &accessPolicyService{
		rbacRepo:       rbacRepo,
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
	}
}

// HasPermission reports whether permission is granted through any of the user's roles
func (s *accessPolicyService) HasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	allowed, err := s.rbacRepo.UserHasPermission(ctx, userID, permission)
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}
	return allowed, nil
}

// UserPermissions returns the effective permission names of a user
func (s *accessPolicyService) UserPermissions(ctx context.Context, userID int64) ([]string, error) {
	permissions, err := s.rbacRepo.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}
	return permissions, nil
}

// AssignRole gives a role to a user; assigning a held role is a no-op
func (s *accessPolicyService) AssignRole(ctx context.Context, userID int64, roleName string) error {
	role, err := s.userAndRole(ctx, userID, roleName)
	if err != nil {
		return err
	}

	assigned, err := s.rbacRepo.AssignRole(ctx, userID, role.ID)
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	if !assigned {
		return nil
	}

	s.publishRoleAssignment(userID, role, true)
	return nil
}

// RevokeRole removes a role from a user; revoking an unheld role is a no-op
func (s *accessPolicyService) RevokeRole(ctx context.Context, userID int64, roleName string) error {
	role, err := s.userAndRole(ctx, userID, roleName)
	if err != nil {
		return err
	}

	revoked, err := s.rbacRepo.RevokeRole(ctx, userID, role.ID)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	if !revoked {
		return nil
	}

	s.publishRoleAssignment(userID, role, false)
	return nil
}

// CreateRole creates a role
func (s *accessPolicyService) CreateRole(ctx context.Context, name, description string) (*entities.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("name", "role name is required")
	}

	existing, err := s.rbacRepo.GetRoleByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if existing != nil {
		return nil, errs.Validation("name", "role %q already exists", name)
	}

	role := &entities.Role{Name: name, Description: utils.StringPtr(strings.TrimSpace(description))}
	if err := s.rbacRepo.CreateRole(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	log.WithFields(log.Fields{
		"roleID": role.ID,
		"name":   role.Name,
	}).Info("Role created")

	return role, nil
}

// DeleteRole deletes a role; its user and permission links go with it
func (s *accessPolicyService) DeleteRole(ctx context.Context, roleName string) error {
	role, err := s.rbacRepo.GetRoleByName(ctx, roleName)
	if err != nil {
		return fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return errs.NotFound("role", roleName)
	}

	deleted, err := s.rbacRepo.DeleteRole(ctx, role.ID)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	if !deleted {
		return errs.NotFound("role", roleName)
	}

	log.WithFields(log.Fields{
		"roleID": role.ID,
		"name":   role.Name,
	}).Info("Role deleted")

	return nil
}

// ListRoles returns all roles
func (s *accessPolicyService) ListRoles(ctx context.Context) ([]*entities.Role, error) {
	roles, err := s.rbacRepo.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// CreatePermission creates a permission
func (s *accessPolicyService) CreatePermission(ctx context.Context, name, description string) (*entities.Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("name", "permission name is required")
	}

	existing, err := s.rbacRepo.GetPermissionByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	if existing != nil {
		return nil, errs.Validation("name", "permission %q already exists", name)
	}

	permission := &entities.Permission{Name: name, Description: utils.StringPtr(strings.TrimSpace(description))}
	if err := s.rbacRepo.CreatePermission(ctx, permission); err != nil {
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}
	return permission, nil
}

// DeletePermission deletes a permission; its role links go with it
func (s *accessPolicyService) DeletePermission(ctx context.Context, permissionName string) error {
	permission, err := s.rbacRepo.GetPermissionByName(ctx, permissionName)
	if err != nil {
		return fmt.Errorf("failed to get permission: %w", err)
	}
	if permission == nil {
		return errs.NotFound("permission", permissionName)
	}

	deleted, err := s.rbacRepo.DeletePermission(ctx, permission.ID)
	if err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}
	if !deleted {
		return errs.NotFound("permission", permissionName)
	}

	log.WithField("permission", permissionName).Info("Permission deleted")
	return nil
}

// GrantPermissionToRole links a permission to a role; idempotent
func (s *accessPolicyService) GrantPermissionToRole(ctx context.Context, roleName, permissionName string) error {
	role, permission, err := s.roleAndPermission(ctx, roleName, permissionName)
	if err != nil {
		return err
	}
	if _, err := s.rbacRepo.GrantPermission(ctx, role.ID, permission.ID); err != nil {
		return fmt.Errorf("failed to grant permission: %w", err)
	}
	return nil
}

// RevokePermissionFromRole unlinks a permission from a role; idempotent
func (s *accessPolicyService) RevokePermissionFromRole(ctx context.Context, roleName, permissionName string) error {
	role, permission, err := s.roleAndPermission(ctx, roleName, permissionName)
	if err != nil {
		return err
	}
	if _, err := s.rbacRepo.RevokePermission(ctx, role.ID, permission.ID); err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}
	return nil
}

func (s *accessPolicyService) userAndRole(ctx context.Context, userID int64, roleName string) (*entities.Role, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errs.NotFound("user", userID)
	}

	role, err := s.rbacRepo.GetRoleByName(ctx, roleName)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, errs.NotFound("role", roleName)
	}
	return role, nil
}

func (s *accessPolicyService) roleAndPermission(ctx context.Context, roleName, permissionName string) (*entities.Role, *entities.Permission, error) {
	role, err := s.rbacRepo.GetRoleByName(ctx, roleName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, nil, errs.NotFound("role", roleName)
	}

	permission, err := s.rbacRepo.GetPermissionByName(ctx, permissionName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get permission: %w", err)
	}
	if permission == nil {
		return nil, nil, errs.NotFound("permission", permissionName)
	}
	return role, permission, nil
}

func (s *accessPolicyService) publishRoleAssignment(userID int64, role *entities.Role, assigned bool) {
	if err := s.eventPublisher.Publish(events.RoleAssignmentEvent{
		UserID:   userID,
		RoleID:   role.ID,
		RoleName: role.Name,
		Assigned: assigned,
	}); err != nil {
		log.WithError(err).Error("Failed to publish role assignment event")
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"role":     role.Name,
		"assigned": assigned,
	}).Info("Role assignment changed")
}
