// Package tag manages content tags.
package tag

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

var (
	// ErrTagNotFound is returned when the requested tag does not exist.
	ErrTagNotFound = errors.New("tag not found")

	// ErrTagNameEmpty is returned when the tag name is empty.
	ErrTagNameEmpty = errors.New("tag name is empty")

	// ErrTagSlugEmpty is returned when the tag slug is empty.
	ErrTagSlugEmpty = errors.New("tag slug is empty")

	// ErrTagAlreadyExists is returned when the slug is already taken.
	ErrTagAlreadyExists = errors.New("tag already exists")

	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get returns one tag by ID.
func Get(db *gorm.DB, id string) (*models.Tag, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.Tag

	err := db.Where("id = ?", id).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return &stored, nil
}

// GetBySlug returns one tag by slug.
func GetBySlug(db *gorm.DB, slug string) (*models.Tag, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.Tag

	err := db.Where("slug = ?", slug).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return &stored, nil
}

// GetAll returns all tags ordered by name.
func GetAll(db *gorm.DB) ([]models.Tag, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tags []models.Tag

	if err := db.Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}

	return tags, nil
}

// Create creates a tag.
func Create(db *gorm.DB, name, slug, color string) (*models.Tag, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrTagNameEmpty
	}

	if slug == "" {
		return nil, ErrTagSlugEmpty
	}

	if existing, err := GetBySlug(db, slug); err == nil && existing != nil {
		return nil, ErrTagAlreadyExists
	} else if err != nil && !errors.Is(err, ErrTagNotFound) {
		return nil, err
	}

	created := models.Tag{Name: name, Slug: slug, Color: color}

	if err := db.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return &created, nil
}

// Update updates a tag.
func Update(db *gorm.DB, id, name, slug, color string) (*models.Tag, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrTagNameEmpty
	}

	if slug == "" {
		return nil, ErrTagSlugEmpty
	}

	stored, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if slug != stored.Slug {
		if existing, err := GetBySlug(db, slug); err == nil && existing != nil {
			return nil, ErrTagAlreadyExists
		} else if err != nil && !errors.Is(err, ErrTagNotFound) {
			return nil, err
		}
	}

	stored.Name = name
	stored.Slug = slug
	stored.Color = color

	if err := db.Save(stored).Error; err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	return stored, nil
}

// Delete removes a tag.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Tag{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete tag: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrTagNotFound
	}

	return nil
}
