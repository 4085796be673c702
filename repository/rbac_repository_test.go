package repository

import (
	"context"
	"testing"

	"clubledger/domain/entities"
	"clubledger/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRBACRepository_SeededRoles(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewRBACRepository(testDB.DB)
	ctx := context.Background()

	admin, err := repo.GetRoleByName(ctx, entities.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, admin)

	manager, err := repo.GetRoleByName(ctx, entities.RoleMembershipManager)
	require.NoError(t, err)
	require.NotNil(t, manager)

	user := testutil.CreateTestUser("treasurer")
	require.NoError(t, users.Create(ctx, user))

	has, err := repo.UserHasPermission(ctx, user.ID, entities.PermissionPaymentsConfirm)
	require.NoError(t, err)
	assert.False(t, has, "no roles means no permissions")

	ok, err := repo.AssignRole(ctx, user.ID, manager.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	has, err = repo.UserHasPermission(ctx, user.ID, entities.PermissionPaymentsConfirm)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.UserHasPermission(ctx, user.ID, entities.PermissionSettingsWrite)
	require.NoError(t, err)
	assert.False(t, has)

	ok, err = repo.AssignRole(ctx, user.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	permissions, err := repo.GetUserPermissions(ctx, user.ID)
	require.NoError(t, err)
	assert.Contains(t, permissions, entities.PermissionSettingsWrite)
	assert.Len(t, permissions, 16, "overlapping grants are reported once")

	roles, err := repo.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestRBACRepository_IdempotentLinks(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewRBACRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("coach")
	require.NoError(t, users.Create(ctx, user))

	role := &entities.Role{Name: "Coach"}
	require.NoError(t, repo.CreateRole(ctx, role))
	permission := &entities.Permission{Name: "coaching.run"}
	require.NoError(t, repo.CreatePermission(ctx, permission))

	ok, err := repo.GrantPermission(ctx, role.ID, permission.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.GrantPermission(ctx, role.ID, permission.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.AssignRole(ctx, user.ID, role.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.AssignRole(ctx, user.ID, role.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.RevokeRole(ctx, user.ID, role.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.RevokeRole(ctx, user.ID, role.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.RevokePermission(ctx, role.ID, permission.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.RevokePermission(ctx, role.ID, permission.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("duplicate names are rejected", func(t *testing.T) {
		assert.Error(t, repo.CreateRole(ctx, &entities.Role{Name: "Coach"}))
		assert.Error(t, repo.CreatePermission(ctx, &entities.Permission{Name: "coaching.run"}))
	})
}

func TestRBACRepository_DeleteCascades(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewRBACRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("volunteer")
	require.NoError(t, users.Create(ctx, user))

	role := &entities.Role{Name: "Range Officer"}
	require.NoError(t, repo.CreateRole(ctx, role))
	permission := &entities.Permission{Name: "range.open"}
	require.NoError(t, repo.CreatePermission(ctx, permission))

	_, err := repo.GrantPermission(ctx, role.ID, permission.ID)
	require.NoError(t, err)
	_, err = repo.AssignRole(ctx, user.ID, role.ID)
	require.NoError(t, err)

	has, err := repo.UserHasPermission(ctx, user.ID, "range.open")
	require.NoError(t, err)
	require.True(t, has)

	deleted, err := repo.DeleteRole(ctx, role.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	has, err = repo.UserHasPermission(ctx, user.ID, "range.open")
	require.NoError(t, err)
	assert.False(t, has)

	roles, err := repo.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)

	var links int
	require.NoError(t, testDB.DB.QueryRow(ctx, `SELECT COUNT(*) FROM role_permissions WHERE role_id = $1`, role.ID).Scan(&links))
	assert.Zero(t, links)

	stillThere, err := repo.GetPermissionByName(ctx, "range.open")
	require.NoError(t, err)
	assert.NotNil(t, stillThere, "deleting a role keeps its permissions")

	deleted, err = repo.DeleteRole(ctx, role.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.DeletePermission(ctx, stillThere.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
