package models

import "gorm.io/datatypes"

// PlanStatus represents the lifecycle state of a subscription plan.
type PlanStatus string

const (
	// PlanStatusDraft marks a plan that is not yet offered.
	PlanStatusDraft PlanStatus = "DRAFT"
	// PlanStatusActive marks a plan that can be subscribed to.
	PlanStatusActive PlanStatus = "ACTIVE"
	// PlanStatusArchived marks a plan that is no longer offered.
	PlanStatusArchived PlanStatus = "ARCHIVED"
)

// Plan represents a subscription plan.
// Prices are stored in the smallest currency unit (cents).
type Plan struct {
	Base
	// Name is the display name of the plan.
	Name string `gorm:"size:100;not null" json:"name"`
	// Description provides a human-readable description of the plan.
	Description string `gorm:"size:255" json:"description,omitempty"`
	// MonthlyPrice is the monthly price in cents.
	MonthlyPrice int64 `gorm:"default:0" json:"monthlyPrice"`
	// YearlyPrice is the yearly price in cents.
	YearlyPrice int64 `gorm:"default:0" json:"yearlyPrice"`
	// Features is the JSON encoded list of feature descriptions.
	Features datatypes.JSON `json:"features"`
	// TrialDays is the number of free trial days granted on subscription.
	TrialDays int `gorm:"default:0" json:"trialDays"`
	// Status is the lifecycle state of the plan.
	Status PlanStatus `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	// SortOrder controls the position of the plan on pricing pages.
	SortOrder int `gorm:"default:0" json:"sortOrder"`
	// IsPopular highlights the plan on pricing pages.
	IsPopular bool `gorm:"default:false" json:"isPopular"`
}

// TableName specifies the database table name for the Plan model.
func (Plan) TableName() string {
	return "plans"
}
