// Package setting provides CRUD operations for managing application settings.
package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

const (
	keyQueryPattern = "key = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to create/update a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its key.
func Get(db *gorm.DB, key string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &setting, nil
}

// GetValue retrieves just the value of a setting, with a fallback when the
// key does not exist.
func GetValue(db *gorm.DB, key, fallback string) string {
	setting, err := Get(db, key)
	if err != nil {
		return fallback
	}

	return setting.Value
}

// GetAll retrieves all settings from the database.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := db.Order("setting_group ASC, key ASC").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// GetByGroup retrieves all settings belonging to one group.
func GetByGroup(db *gorm.DB, group string) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := db.Where("setting_group = ?", group).Order("key ASC").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Create creates a new setting in the database.
func Create(db *gorm.DB, key, value, group string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	// Check if setting already exists
	var existing models.Setting
	result := db.Where(keyQueryPattern, key).First(&existing)
	if result.Error == nil {
		return nil, ErrSettingAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	if group == "" {
		group = "general"
	}

	setting := &models.Setting{
		Key:   key,
		Value: value,
		Group: group,
	}

	result = db.Create(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return setting, nil
}

// Set creates or updates a setting by key (upsert operation).
// The group is only applied on create; updating a value never moves the
// setting between groups.
func Set(db *gorm.DB, key, value, group string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.Where(keyQueryPattern, key).First(&setting)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Create(db, key, value, group)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	setting.Value = value
	result = db.Save(&setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return &setting, nil
}

// Update updates an existing setting by key.
func Update(db *gorm.DB, key, value string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	setting.Value = value
	result = db.Save(&setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return &setting, nil
}

// Delete deletes a setting by key.
func Delete(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrSettingKeyEmpty
	}

	result := db.Where(keyQueryPattern, key).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
