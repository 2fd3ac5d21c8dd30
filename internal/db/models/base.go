// Package models contains database model definitions.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains the common columns shared by all models.
// Primary keys are string UUIDs so that exported reference data keeps its
// identity when restored into another database.
type Base struct {
	// ID is the unique identifier for the record.
	ID string `gorm:"type:uuid;primaryKey" json:"id"`
	// CreatedAt is the timestamp when the record was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the record was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when no ID was provided by the caller.
// Restored records arrive with their original ID and keep it.
func (base *Base) BeforeCreate(_ *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}

	return nil
}
