package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Role{}, &models.User{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		roleName      string
		permissions   []string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			roleName:      "Moderator",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			roleName:      "",
			expectedError: ErrRoleNameEmpty,
		},
		{
			name:          "unknown permission token",
			dbParam:       db,
			roleName:      "Moderator",
			permissions:   []string{auth.PermPostsView, "posts.moderate"},
			expectedError: auth.ErrUnknownPermission,
		},
		{
			name:        "successful create",
			dbParam:     db,
			roleName:    "Moderator",
			permissions: []string{auth.PermPostsView, auth.PermPostsEditAll},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM roles")
			}

			role, err := Create(tc.dbParam, tc.roleName, "test role", tc.permissions, false)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, role)
			} else {
				require.NoError(t, err)
				require.NotNil(t, role)
				assert.Equal(t, tc.roleName, role.Name)
				assert.ElementsMatch(t, tc.permissions, role.PermissionList())
				assert.NotEmpty(t, role.ID)
			}
		})
	}
}

func TestCreateDuplicateName(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "Moderator", "", []string{auth.PermPostsView}, false)
	require.NoError(t, err)

	_, err = Create(db, "Moderator", "", []string{auth.PermPostsView}, false)
	require.ErrorIs(t, err, ErrRoleAlreadyExists)
}

func TestDefaultFlagIsExclusive(t *testing.T) {
	db := setupTestDB(t)

	first, err := Create(db, "Member", "", []string{auth.PermPostsView}, true)
	require.NoError(t, err)

	second, err := Create(db, "Subscriber", "", []string{auth.PermPostsView}, true)
	require.NoError(t, err)

	// The new default displaces the old one.
	current, err := GetDefault(db)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, second.ID, current.ID)

	reloaded, err := Get(db, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)

	// Promoting via update also displaces.
	_, err = Update(db, first.ID, "Member", "", []string{auth.PermPostsView}, true)
	require.NoError(t, err)

	current, err = GetDefault(db)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, first.ID, current.ID)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "Moderator", "initial", []string{auth.PermPostsView}, false)
	require.NoError(t, err)

	updated, err := Update(db, created.ID, "Lead Moderator", "updated",
		[]string{auth.PermPostsView, auth.PermPostsDelete}, false)
	require.NoError(t, err)
	assert.Equal(t, "Lead Moderator", updated.Name)
	assert.Equal(t, "updated", updated.Description)
	assert.ElementsMatch(t, []string{auth.PermPostsView, auth.PermPostsDelete}, updated.PermissionList())

	_, err = Update(db, "nonexistent-id", "X", "", nil, false)
	require.ErrorIs(t, err, ErrRoleNotFound)

	_, err = Update(db, created.ID, "Lead Moderator", "", []string{"bogus.token"}, false)
	require.ErrorIs(t, err, auth.ErrUnknownPermission)
}

func TestUpdateSystemRoleKeepsName(t *testing.T) {
	db := setupTestDB(t)

	system := &models.Role{Name: "Admin", IsSystem: true}
	require.NoError(t, system.SetPermissions(auth.AllPermissions()))
	require.NoError(t, db.Create(system).Error)

	// Renaming a system role is rejected.
	_, err := Update(db, system.ID, "Root", "", auth.AllPermissions(), false)
	require.ErrorIs(t, err, ErrSystemRole)

	// Changing permissions while keeping the name is allowed.
	updated, err := Update(db, system.ID, "Admin", "full access",
		[]string{auth.PermUsersView}, false)
	require.NoError(t, err)
	assert.Equal(t, "full access", updated.Description)
	assert.ElementsMatch(t, []string{auth.PermUsersView}, updated.PermissionList())
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	role, err := Create(db, "Temp", "", []string{auth.PermPostsView}, false)
	require.NoError(t, err)

	require.NoError(t, Delete(db, role.ID))

	_, err = Get(db, role.ID)
	require.ErrorIs(t, err, ErrRoleNotFound)

	require.ErrorIs(t, Delete(db, "nonexistent-id"), ErrRoleNotFound)
	require.ErrorIs(t, Delete(nil, role.ID), ErrDBNil)
}

func TestDeleteRoleWithUsersIsRejected(t *testing.T) {
	db := setupTestDB(t)

	role, err := Create(db, "Staff", "", []string{auth.PermPostsView}, false)
	require.NoError(t, err)

	user := &models.User{
		Active:   true,
		Username: "staffer",
		Email:    "staffer@example.com",
		RoleID:   &role.ID,
	}
	require.NoError(t, db.Create(user).Error)

	err = Delete(db, role.ID)
	require.ErrorIs(t, err, ErrRoleInUse)

	// The role must remain untouched after the rejected delete.
	survivor, err := Get(db, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "Staff", survivor.Name)

	// Unassigning the user unblocks the delete.
	require.NoError(t, db.Model(user).Update("role_id", nil).Error)
	require.NoError(t, Delete(db, role.ID))
}

func TestDeleteSystemRoleIsRejected(t *testing.T) {
	db := setupTestDB(t)

	system := &models.Role{Name: "Admin", IsSystem: true}
	require.NoError(t, system.SetPermissions(auth.AllPermissions()))
	require.NoError(t, db.Create(system).Error)

	require.ErrorIs(t, Delete(db, system.ID), ErrSystemRole)
}

func TestUsersCountIgnoresSoftDeleted(t *testing.T) {
	db := setupTestDB(t)

	role, err := Create(db, "Staff", "", []string{auth.PermPostsView}, false)
	require.NoError(t, err)

	active := &models.User{Active: true, Username: "a", Email: "a@example.com", RoleID: &role.ID}
	require.NoError(t, db.Create(active).Error)

	deleted := &models.User{Active: false, Username: "b", Email: "b@example.com", RoleID: &role.ID}
	require.NoError(t, db.Create(deleted).Error)
	require.NoError(t, db.Model(deleted).Update("deleted_at", gorm.Expr("CURRENT_TIMESTAMP")).Error)

	count, err := UsersCount(db, role.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetAll(t *testing.T) {
	db := setupTestDB(t)

	roles, err := GetAll(db)
	require.NoError(t, err)
	assert.Empty(t, roles)

	_, err = Create(db, "Zeta", "", []string{auth.PermPostsView}, false)
	require.NoError(t, err)
	_, err = Create(db, "Alpha", "", []string{auth.PermPostsView}, false)
	require.NoError(t, err)

	roles, err = GetAll(db)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Alpha", roles[0].Name)
	assert.Equal(t, "Zeta", roles[1].Name)
}
