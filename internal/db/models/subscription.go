package models

import "time"

// SubscriptionStatus represents the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	// SubscriptionStatusTrialing marks a subscription within its trial period.
	SubscriptionStatusTrialing SubscriptionStatus = "TRIALING"
	// SubscriptionStatusActive marks a paying subscription.
	SubscriptionStatusActive SubscriptionStatus = "ACTIVE"
	// SubscriptionStatusPastDue marks a subscription with a failed renewal payment.
	SubscriptionStatusPastDue SubscriptionStatus = "PAST_DUE"
	// SubscriptionStatusCancelled marks an ended subscription.
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// BillingInterval represents how often a subscription renews.
type BillingInterval string

const (
	// BillingIntervalMonth renews the subscription every month.
	BillingIntervalMonth BillingInterval = "month"
	// BillingIntervalYear renews the subscription every year.
	BillingIntervalYear BillingInterval = "year"
)

// Subscription links a user to a plan.
// Active or trialing subscriptions block deletion of their plan.
type Subscription struct {
	Base
	// UserID is the subscribing user.
	UserID string `gorm:"type:uuid;not null" json:"userId"`
	// User is the associated user.
	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	// PlanID is the subscribed plan.
	PlanID string `gorm:"type:uuid;not null" json:"planId"`
	// Plan is the associated plan.
	Plan *Plan `gorm:"foreignKey:PlanID;references:ID" json:"plan,omitempty"`
	// Status is the lifecycle state of the subscription.
	Status SubscriptionStatus `gorm:"type:varchar(20);not null;default:'TRIALING'" json:"status"`
	// Interval is the renewal interval (month or year).
	Interval BillingInterval `gorm:"type:varchar(10);not null;default:'month'" json:"interval"`
	// CurrentPeriodEnd is when the current billing period expires.
	CurrentPeriodEnd time.Time `json:"currentPeriodEnd"`
}

// TableName specifies the database table name for the Subscription model.
func (Subscription) TableName() string {
	return "subscriptions"
}
