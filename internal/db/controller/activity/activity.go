// Package activity provides the append-only audit trail of admin actions.
package activity

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrActionEmpty is returned when attempting to log an entry without an action name.
	ErrActionEmpty = errors.New("activity action cannot be empty")
)

const (
	// DefaultPageSize bounds List calls that pass no limit.
	DefaultPageSize = 50
	// MaxPageSize caps the page size a caller can request.
	MaxPageSize = 200
)

// Log appends one entry to the audit trail. Failures to write the trail are
// returned to the caller but never block the action that was logged.
func Log(db *gorm.DB, userID, action, entity, entityID, description string) error {
	if db == nil {
		return ErrDBNil
	}
	if action == "" {
		return ErrActionEmpty
	}

	entry := models.ActivityLog{
		UserID:      userID,
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		Description: description,
	}

	return db.Create(&entry).Error
}

// Filter narrows a List call. Zero values mean no filtering.
type Filter struct {
	UserID string
	Entity string
	Action string
	Limit  int
	Offset int
}

// List returns audit entries newest first, plus the total count matching the
// filter.
func List(db *gorm.DB, filter Filter) ([]models.ActivityLog, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	query := db.Model(&models.ActivityLog{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var entries []models.ActivityLog

	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
