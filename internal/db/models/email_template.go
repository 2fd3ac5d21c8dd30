package models

import "gorm.io/datatypes"

// EmailTemplate represents a reusable email template.
// Templates contain {{variable}} placeholders substituted at send time;
// Variables documents the placeholder names the template expects.
type EmailTemplate struct {
	Base
	// Name is the display name of the template.
	Name string `gorm:"size:100;not null" json:"name"`
	// Slug is the unique identifier used to look the template up at send time.
	Slug string `gorm:"unique;size:100;not null" json:"slug"`
	// Subject is the mail subject line, may contain placeholders.
	Subject string `gorm:"size:255;not null" json:"subject"`
	// HTMLContent is the HTML body of the template.
	HTMLContent string `gorm:"type:text" json:"htmlContent"`
	// TextContent is the optional plain-text body of the template.
	TextContent string `gorm:"type:text" json:"textContent,omitempty"`
	// Variables is the JSON encoded list of placeholder names.
	Variables datatypes.JSON `json:"variables,omitempty"`
	// Description provides a human-readable description of the template.
	Description string `gorm:"size:255" json:"description,omitempty"`
	// IsActive disables the template without deleting it when false.
	IsActive bool `gorm:"default:true" json:"isActive"`
}

// TableName specifies the database table name for the EmailTemplate model.
func (EmailTemplate) TableName() string {
	return "email_templates"
}
