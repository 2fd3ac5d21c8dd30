package models

// Redirect represents an SEO redirect rule from a source path to a destination.
type Redirect struct {
	Base
	// Source is the unique path to redirect from.
	Source string `gorm:"unique;size:500;not null" json:"source"`
	// Destination is the target path or URL.
	Destination string `gorm:"size:500;not null" json:"destination"`
	// StatusCode is the HTTP status used for the redirect (301 or 302).
	StatusCode int `gorm:"default:301" json:"statusCode"`
	// HitCount counts how often the redirect was served.
	HitCount int64 `gorm:"default:0" json:"hitCount"`
	// IsActive disables the rule without deleting it when false.
	IsActive bool `gorm:"default:true" json:"isActive"`
}

// TableName specifies the database table name for the Redirect model.
func (Redirect) TableName() string {
	return "redirects"
}
