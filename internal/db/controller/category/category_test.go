package category

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

	err = db.AutoMigrate(&models.Category{}, &models.Post{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		catName       string
		slug          string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			catName:       "News",
			slug:          "news",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			catName:       "",
			slug:          "news",
			expectedError: ErrCategoryNameEmpty,
		},
		{
			name:          "empty slug",
			dbParam:       db,
			catName:       "News",
			slug:          "",
			expectedError: ErrCategorySlugEmpty,
		},
		{
			name:    "successful create",
			dbParam: db,
			catName: "News",
			slug:    "news",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM categories")
			}

			created, err := Create(tc.dbParam, tc.catName, tc.slug, "", nil, 0)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				require.NotNil(t, created)
				assert.Equal(t, tc.catName, created.Name)
				assert.NotEmpty(t, created.ID)
			}
		})
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "News", "news", "", nil, 0)
	require.NoError(t, err)

	_, err = Create(db, "Newsletter", "news", "", nil, 0)
	require.ErrorIs(t, err, ErrCategoryAlreadyExists)
}

func TestCreateWithParent(t *testing.T) {
	db := setupTestDB(t)

	parent, err := Create(db, "News", "news", "", nil, 0)
	require.NoError(t, err)

	child, err := Create(db, "Tech", "tech", "", &parent.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	missing := "00000000-0000-0000-0000-000000000000"
	_, err = Create(db, "Orphan", "orphan", "", &missing, 0)
	require.ErrorIs(t, err, ErrCategoryParentNotFound)
}

func TestUpdateRejectsCycles(t *testing.T) {
	db := setupTestDB(t)

	root, err := Create(db, "Root", "root", "", nil, 0)
	require.NoError(t, err)

	mid, err := Create(db, "Mid", "mid", "", &root.ID, 0)
	require.NoError(t, err)

	leaf, err := Create(db, "Leaf", "leaf", "", &mid.ID, 0)
	require.NoError(t, err)

	// Direct self-parenting.
	_, err = Update(db, root.ID, "Root", "root", "", &root.ID, 0)
	require.ErrorIs(t, err, ErrCategoryParentCycle)

	// Moving the root under its own grandchild.
	_, err = Update(db, root.ID, "Root", "root", "", &leaf.ID, 0)
	require.ErrorIs(t, err, ErrCategoryParentCycle)

	// A legal move still works.
	updated, err := Update(db, leaf.ID, "Leaf", "leaf", "", &root.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, root.ID, *updated.ParentID)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "News", "news", "old", nil, 0)
	require.NoError(t, err)

	updated, err := Update(db, created.ID, "World News", "world-news", "updated", nil, 3)
	require.NoError(t, err)
	assert.Equal(t, "World News", updated.Name)
	assert.Equal(t, "world-news", updated.Slug)
	assert.Equal(t, 3, updated.Order)

	_, err = Update(db, "missing", "X", "x", "", nil, 0)
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	parent, err := Create(db, "News", "news", "", nil, 0)
	require.NoError(t, err)

	child, err := Create(db, "Tech", "tech", "", &parent.ID, 0)
	require.NoError(t, err)

	// A parent with children is protected.
	err = Delete(db, parent.ID)
	require.ErrorIs(t, err, ErrCategoryHasChildren)

	require.NoError(t, Delete(db, child.ID))
	require.NoError(t, Delete(db, parent.ID))

	err = Delete(db, parent.ID)
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteDetachesPosts(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "News", "news", "", nil, 0)
	require.NoError(t, err)

	attached := models.Post{Title: "Hello", Slug: "hello", CategoryID: &created.ID}
	require.NoError(t, db.Create(&attached).Error)

	require.NoError(t, Delete(db, created.ID))

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, "id = ?", attached.ID).Error)
	assert.Nil(t, reloaded.CategoryID)
}

func TestGetAllOrder(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "Bravo", "bravo", "", nil, 2)
	require.NoError(t, err)
	_, err = Create(db, "Alpha", "alpha", "", nil, 1)
	require.NoError(t, err)

	all, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name)
	assert.Equal(t, "Bravo", all[1].Name)
}
