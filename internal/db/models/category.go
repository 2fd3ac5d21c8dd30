package models

// Category represents a content category.
// Categories form a tree through ParentID; a nil parent marks a root node.
type Category struct {
	Base
	// Name is the display name of the category.
	Name string `gorm:"size:100;not null" json:"name"`
	// Slug is the unique URL fragment for the category.
	Slug string `gorm:"unique;size:100;not null" json:"slug"`
	// Description provides a human-readable description of the category.
	Description string `gorm:"size:255" json:"description,omitempty"`
	// ParentID references the parent category, nil for root categories.
	ParentID *string `gorm:"type:uuid" json:"parentId,omitempty"`
	// Order controls the position of the category among its siblings.
	Order int `gorm:"default:0" json:"order"`
}

// TableName specifies the database table name for the Category model.
func (Category) TableName() string {
	return "categories"
}
