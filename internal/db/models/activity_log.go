package models

// ActivityLog represents one entry of the audit trail.
// Entries are append-only; nothing in the application updates or deletes them.
type ActivityLog struct {
	Base
	// UserID is the acting user, empty for system actions.
	UserID string `gorm:"type:uuid;index" json:"userId"`
	// Action names what happened (e.g., "backup.restore").
	Action string `gorm:"size:100;not null" json:"action"`
	// Entity names the kind of record acted on (e.g., "backup").
	Entity string `gorm:"size:100" json:"entity"`
	// EntityID references the record acted on.
	EntityID string `gorm:"size:100" json:"entityId,omitempty"`
	// Description is a human-readable summary of the action.
	Description string `gorm:"size:1000" json:"description"`
}

// TableName specifies the database table name for the ActivityLog model.
func (ActivityLog) TableName() string {
	return "activity_logs"
}
