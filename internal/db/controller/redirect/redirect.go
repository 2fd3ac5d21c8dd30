// Package redirect manages SEO redirect rules.
package redirect

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

var (
	// ErrRedirectNotFound is returned when the requested redirect does not exist.
	ErrRedirectNotFound = errors.New("redirect not found")

	// ErrRedirectSourceEmpty is returned when the source path is empty.
	ErrRedirectSourceEmpty = errors.New("redirect source is empty")

	// ErrRedirectDestinationEmpty is returned when the destination is empty.
	ErrRedirectDestinationEmpty = errors.New("redirect destination is empty")

	// ErrRedirectAlreadyExists is returned when the source path is already taken.
	ErrRedirectAlreadyExists = errors.New("redirect already exists")

	// ErrRedirectLoop is returned when source and destination are identical.
	ErrRedirectLoop = errors.New("redirect points to its own source")

	// ErrRedirectInvalidStatus is returned for status codes other than 301 and 302.
	ErrRedirectInvalidStatus = errors.New("redirect status code must be 301 or 302")

	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

func validate(source, destination string, statusCode int) error {
	if source == "" {
		return ErrRedirectSourceEmpty
	}

	if destination == "" {
		return ErrRedirectDestinationEmpty
	}

	if source == destination {
		return ErrRedirectLoop
	}

	if statusCode != 301 && statusCode != 302 {
		return ErrRedirectInvalidStatus
	}

	return nil
}

// Get returns one redirect by ID.
func Get(db *gorm.DB, id string) (*models.Redirect, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.Redirect

	err := db.Where("id = ?", id).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRedirectNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get redirect: %w", err)
	}

	return &stored, nil
}

// GetBySource returns one redirect by its source path.
func GetBySource(db *gorm.DB, source string) (*models.Redirect, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.Redirect

	err := db.Where("source = ?", source).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRedirectNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get redirect: %w", err)
	}

	return &stored, nil
}

// GetAll returns all redirects ordered by source.
func GetAll(db *gorm.DB) ([]models.Redirect, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var redirects []models.Redirect

	if err := db.Order("source").Find(&redirects).Error; err != nil {
		return nil, fmt.Errorf("failed to get redirects: %w", err)
	}

	return redirects, nil
}

// Create creates a redirect rule.
func Create(db *gorm.DB, source, destination string, statusCode int, isActive bool) (*models.Redirect, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if statusCode == 0 {
		statusCode = 301
	}

	if err := validate(source, destination, statusCode); err != nil {
		return nil, err
	}

	if existing, err := GetBySource(db, source); err == nil && existing != nil {
		return nil, ErrRedirectAlreadyExists
	} else if err != nil && !errors.Is(err, ErrRedirectNotFound) {
		return nil, err
	}

	created := models.Redirect{
		Source:      source,
		Destination: destination,
		StatusCode:  statusCode,
		IsActive:    isActive,
	}

	if err := db.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create redirect: %w", err)
	}

	return &created, nil
}

// Update updates a redirect rule. The hit counter is left untouched.
func Update(db *gorm.DB, id, source, destination string, statusCode int, isActive bool) (*models.Redirect, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := validate(source, destination, statusCode); err != nil {
		return nil, err
	}

	stored, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if source != stored.Source {
		if existing, err := GetBySource(db, source); err == nil && existing != nil {
			return nil, ErrRedirectAlreadyExists
		} else if err != nil && !errors.Is(err, ErrRedirectNotFound) {
			return nil, err
		}
	}

	stored.Source = source
	stored.Destination = destination
	stored.StatusCode = statusCode
	stored.IsActive = isActive

	if err := db.Save(stored).Error; err != nil {
		return nil, fmt.Errorf("failed to update redirect: %w", err)
	}

	return stored, nil
}

// RecordHit increments the hit counter of a redirect.
func RecordHit(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Redirect{}).Where("id = ?", id).
		UpdateColumn("hit_count", gorm.Expr("hit_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to record redirect hit: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrRedirectNotFound
	}

	return nil
}

// Delete removes a redirect rule.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Redirect{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete redirect: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrRedirectNotFound
	}

	return nil
}
