// Package category manages the category tree.
package category

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

var (
	// ErrCategoryNotFound is returned when the requested category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameEmpty is returned when the category name is empty.
	ErrCategoryNameEmpty = errors.New("category name is empty")

	// ErrCategorySlugEmpty is returned when the category slug is empty.
	ErrCategorySlugEmpty = errors.New("category slug is empty")

	// ErrCategoryAlreadyExists is returned when the slug is already taken.
	ErrCategoryAlreadyExists = errors.New("category already exists")

	// ErrCategoryParentNotFound is returned when the referenced parent does not exist.
	ErrCategoryParentNotFound = errors.New("parent category not found")

	// ErrCategoryParentCycle is returned when the parent chain would loop.
	ErrCategoryParentCycle = errors.New("category cannot be its own ancestor")

	// ErrCategoryHasChildren is returned when deleting a category that still has children.
	ErrCategoryHasChildren = errors.New("category still has child categories")

	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get returns one category by ID.
func Get(db *gorm.DB, id string) (*models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.Category

	err := db.Where("id = ?", id).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &stored, nil
}

// GetBySlug returns one category by slug.
func GetBySlug(db *gorm.DB, slug string) (*models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.Category

	err := db.Where("slug = ?", slug).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &stored, nil
}

// GetAll returns all categories ordered by their sibling order and name.
func GetAll(db *gorm.DB) ([]models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var categories []models.Category

	if err := db.Order("\"order\", name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	return categories, nil
}

// Create creates a category. A non-nil parentID must reference an existing
// category.
func Create(db *gorm.DB, name, slug, description string, parentID *string, order int) (*models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrCategoryNameEmpty
	}

	if slug == "" {
		return nil, ErrCategorySlugEmpty
	}

	if existing, err := GetBySlug(db, slug); err == nil && existing != nil {
		return nil, ErrCategoryAlreadyExists
	} else if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	if parentID != nil {
		if _, err := Get(db, *parentID); errors.Is(err, ErrCategoryNotFound) {
			return nil, ErrCategoryParentNotFound
		} else if err != nil {
			return nil, err
		}
	}

	created := models.Category{
		Name:        name,
		Slug:        slug,
		Description: description,
		ParentID:    parentID,
		Order:       order,
	}

	if err := db.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &created, nil
}

// Update updates a category. Moving the category under one of its own
// descendants is rejected.
func Update(db *gorm.DB, id, name, slug, description string, parentID *string, order int) (*models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrCategoryNameEmpty
	}

	if slug == "" {
		return nil, ErrCategorySlugEmpty
	}

	stored, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if slug != stored.Slug {
		if existing, err := GetBySlug(db, slug); err == nil && existing != nil {
			return nil, ErrCategoryAlreadyExists
		} else if err != nil && !errors.Is(err, ErrCategoryNotFound) {
			return nil, err
		}
	}

	if parentID != nil {
		if err := checkParent(db, id, *parentID); err != nil {
			return nil, err
		}
	}

	stored.Name = name
	stored.Slug = slug
	stored.Description = description
	stored.ParentID = parentID
	stored.Order = order

	if err := db.Save(stored).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return stored, nil
}

// Delete removes a category. Categories with children cannot be deleted;
// posts referencing the category keep a dangling reference cleared here.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := Get(db, id); err != nil {
		return err
	}

	var children int64
	if err := db.Model(&models.Category{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
		return fmt.Errorf("failed to count child categories: %w", err)
	}

	if children > 0 {
		return fmt.Errorf("%w: %d", ErrCategoryHasChildren, children)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach posts: %w", err)
		}

		if err := tx.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		return nil
	})
}

// checkParent validates that parentID exists and that walking its ancestor
// chain never reaches id.
func checkParent(db *gorm.DB, id, parentID string) error {
	current := parentID

	for current != "" {
		if current == id {
			return ErrCategoryParentCycle
		}

		node, err := Get(db, current)
		if errors.Is(err, ErrCategoryNotFound) {
			if current == parentID {
				return ErrCategoryParentNotFound
			}

			return nil
		}

		if err != nil {
			return err
		}

		if node.ParentID == nil {
			return nil
		}

		current = *node.ParentID
	}

	return nil
}
