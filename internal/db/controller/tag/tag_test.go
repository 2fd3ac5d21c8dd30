package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Tag{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		tagName       string
		slug          string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			tagName:       "Go",
			slug:          "go",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			tagName:       "",
			slug:          "go",
			expectedError: ErrTagNameEmpty,
		},
		{
			name:          "empty slug",
			dbParam:       db,
			tagName:       "Go",
			slug:          "",
			expectedError: ErrTagSlugEmpty,
		},
		{
			name:    "successful create",
			dbParam: db,
			tagName: "Go",
			slug:    "go",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM tags")
			}

			created, err := Create(tc.dbParam, tc.tagName, tc.slug, "#00ADD8")

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				require.NotNil(t, created)
				assert.Equal(t, tc.tagName, created.Name)
				assert.Equal(t, "#00ADD8", created.Color)
			}
		})
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "Go", "go", "")
	require.NoError(t, err)

	_, err = Create(db, "Golang", "go", "")
	require.ErrorIs(t, err, ErrTagAlreadyExists)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "Go", "go", "")
	require.NoError(t, err)

	other, err := Create(db, "Rust", "rust", "")
	require.NoError(t, err)

	updated, err := Update(db, created.ID, "Golang", "golang", "#00ADD8")
	require.NoError(t, err)
	assert.Equal(t, "Golang", updated.Name)
	assert.Equal(t, "golang", updated.Slug)

	// Taking another tag's slug is rejected.
	_, err = Update(db, created.ID, "Golang", other.Slug, "")
	require.ErrorIs(t, err, ErrTagAlreadyExists)

	// Keeping the own slug is fine.
	_, err = Update(db, created.ID, "Golang", "golang", "")
	require.NoError(t, err)

	_, err = Update(db, "missing", "X", "x", "")
	require.ErrorIs(t, err, ErrTagNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "Go", "go", "")
	require.NoError(t, err)

	require.NoError(t, Delete(db, created.ID))

	err = Delete(db, created.ID)
	require.ErrorIs(t, err, ErrTagNotFound)
}

func TestGetAllOrder(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "Zig", "zig", "")
	require.NoError(t, err)
	_, err = Create(db, "Ada", "ada", "")
	require.NoError(t, err)

	all, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ada", all[0].Name)
	assert.Equal(t, "Zig", all[1].Name)
}
