package media

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

	err = db.AutoMigrate(&models.MediaFile{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		fileName      string
		path          string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			fileName:      "logo.png",
			path:          "media/logo.png",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty file name",
			dbParam:       db,
			fileName:      "",
			path:          "media/logo.png",
			expectedError: ErrMediaFileNameEmpty,
		},
		{
			name:          "empty path",
			dbParam:       db,
			fileName:      "logo.png",
			path:          "",
			expectedError: ErrMediaPathEmpty,
		},
		{
			name:     "successful create",
			dbParam:  db,
			fileName: "logo.png",
			path:     "media/logo.png",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM media_files")
			}

			created, err := Create(tc.dbParam, tc.fileName, tc.path, "image/png", 1024, "user-1")

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				require.NotNil(t, created)
				assert.Equal(t, int64(1024), created.Size)
				require.NotNil(t, created.UploadedBy)
				assert.Equal(t, "user-1", *created.UploadedBy)
			}
		})
	}
}

func TestList(t *testing.T) {
	db := setupTestDB(t)

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		_, err := Create(db, name, "media/"+name, "image/png", 10, "")
		require.NoError(t, err)
	}

	files, total, err := List(db, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, files, 2)

	rest, _, err := List(db, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "logo.png", "media/logo.png", "image/png", 10, "")
	require.NoError(t, err)

	require.NoError(t, Delete(db, created.ID))

	err = Delete(db, created.ID)
	require.ErrorIs(t, err, ErrMediaNotFound)
}
