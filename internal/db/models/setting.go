package models

// Setting represents a configuration setting stored in the database.
// Settings are grouped for presentation only; the key is globally unique.
type Setting struct {
	Base
	// Key is the unique setting key (e.g., "site_name").
	Key string `gorm:"unique;size:100;not null" json:"key"`
	// Value is the setting value, stored as text.
	Value string `gorm:"type:text" json:"value"`
	// Group names the settings section this key belongs to (e.g., "general").
	Group string `gorm:"column:setting_group;size:100;not null;default:'general'" json:"group"`
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}
