package models

// Tag represents a free-form content label.
type Tag struct {
	Base
	// Name is the display name of the tag.
	Name string `gorm:"size:100;not null" json:"name"`
	// Slug is the unique URL fragment for the tag.
	Slug string `gorm:"unique;size:100;not null" json:"slug"`
	// Color is an optional hex color used by the UI.
	Color string `gorm:"size:20" json:"color,omitempty"`
}

// TableName specifies the database table name for the Tag model.
func (Tag) TableName() string {
	return "tags"
}
