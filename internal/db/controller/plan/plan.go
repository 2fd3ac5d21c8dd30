// Package plan manages subscription plans and subscriptions.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

var (
	// ErrPlanNotFound is returned when the requested plan does not exist.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrPlanNameEmpty is returned when the plan name is empty.
	ErrPlanNameEmpty = errors.New("plan name is empty")

	// ErrPlanInUse is returned when deleting a plan that still has live subscriptions.
	ErrPlanInUse = errors.New("plan has active subscriptions")

	// ErrPlanInvalidStatus is returned for unknown plan statuses.
	ErrPlanInvalidStatus = errors.New("invalid plan status")

	// ErrSubscriptionNotFound is returned when the requested subscription does not exist.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrSubscriptionInvalidStatus is returned for unknown subscription statuses.
	ErrSubscriptionInvalidStatus = errors.New("invalid subscription status")

	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// liveStatuses are the subscription states that block plan deletion.
var liveStatuses = []models.SubscriptionStatus{
	models.SubscriptionStatusTrialing,
	models.SubscriptionStatusActive,
}

// Fields carries the mutable fields of a plan.
type Fields struct {
	Name         string
	Description  string
	MonthlyPrice int64
	YearlyPrice  int64
	Features     []string
	TrialDays    int
	Status       models.PlanStatus
	SortOrder    int
	IsPopular    bool
}

func (f *Fields) validate() error {
	if f.Name == "" {
		return ErrPlanNameEmpty
	}

	switch f.Status {
	case models.PlanStatusDraft, models.PlanStatusActive, models.PlanStatusArchived:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrPlanInvalidStatus, f.Status)
	}
}

func (f *Fields) featuresJSON() (datatypes.JSON, error) {
	if f.Features == nil {
		return nil, nil
	}

	raw, err := json.Marshal(f.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan features: %w", err)
	}

	return datatypes.JSON(raw), nil
}

// Get returns one plan by ID.
func Get(db *gorm.DB, id string) (*models.Plan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.Plan

	err := db.Where("id = ?", id).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return &stored, nil
}

// GetAll returns all plans ordered for pricing pages.
func GetAll(db *gorm.DB) ([]models.Plan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var plans []models.Plan

	if err := db.Order("sort_order, name").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to get plans: %w", err)
	}

	return plans, nil
}

// LiveSubscriptionsCount returns the number of trialing or active
// subscriptions on a plan.
func LiveSubscriptionsCount(db *gorm.DB, planID string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64

	err := db.Model(&models.Subscription{}).
		Where("plan_id = ? AND status IN ?", planID, liveStatuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	return count, nil
}

// Create creates a plan. An empty status defaults to DRAFT.
func Create(db *gorm.DB, fields Fields) (*models.Plan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if fields.Status == "" {
		fields.Status = models.PlanStatusDraft
	}

	if err := fields.validate(); err != nil {
		return nil, err
	}

	features, err := fields.featuresJSON()
	if err != nil {
		return nil, err
	}

	created := models.Plan{
		Name:         fields.Name,
		Description:  fields.Description,
		MonthlyPrice: fields.MonthlyPrice,
		YearlyPrice:  fields.YearlyPrice,
		Features:     features,
		TrialDays:    fields.TrialDays,
		Status:       fields.Status,
		SortOrder:    fields.SortOrder,
		IsPopular:    fields.IsPopular,
	}

	if err := db.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return &created, nil
}

// Update updates a plan.
func Update(db *gorm.DB, id string, fields Fields) (*models.Plan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := fields.validate(); err != nil {
		return nil, err
	}

	stored, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	features, err := fields.featuresJSON()
	if err != nil {
		return nil, err
	}

	stored.Name = fields.Name
	stored.Description = fields.Description
	stored.MonthlyPrice = fields.MonthlyPrice
	stored.YearlyPrice = fields.YearlyPrice
	stored.Features = features
	stored.TrialDays = fields.TrialDays
	stored.Status = fields.Status
	stored.SortOrder = fields.SortOrder
	stored.IsPopular = fields.IsPopular

	if err := db.Save(stored).Error; err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	return stored, nil
}

// Delete removes a plan. Plans with trialing or active subscriptions are
// protected; cancelled history is detached from the plan record first.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := Get(db, id); err != nil {
		return err
	}

	count, err := LiveSubscriptionsCount(db, id)
	if err != nil {
		return err
	}

	if count > 0 {
		return fmt.Errorf("%w: %d", ErrPlanInUse, count)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", id).
			Delete(&models.Subscription{}).Error; err != nil {
			return fmt.Errorf("failed to remove ended subscriptions: %w", err)
		}

		if err := tx.Delete(&models.Plan{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete plan: %w", err)
		}

		return nil
	})
}

// GetSubscription returns one subscription with its user and plan preloaded.
func GetSubscription(db *gorm.DB, id string) (*models.Subscription, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var stored models.Subscription

	err := db.Preload("User").Preload("Plan").Where("id = ?", id).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return &stored, nil
}

// ListSubscriptions returns a page of subscriptions, newest first, optionally
// filtered by status or plan.
func ListSubscriptions(db *gorm.DB, status models.SubscriptionStatus, planID string,
	limit, offset int) ([]models.Subscription, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	query := db.Model(&models.Subscription{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if planID != "" {
		query = query.Where("plan_id = ?", planID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var subscriptions []models.Subscription

	err := query.Preload("User").Preload("Plan").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&subscriptions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return subscriptions, total, nil
}

// Subscribe creates a subscription for a user on a plan. The first billing
// period starts after the plan's trial days when the plan grants a trial.
func Subscribe(db *gorm.DB, userID, planID string, interval models.BillingInterval) (*models.Subscription, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	subscribed, err := Get(db, planID)
	if err != nil {
		return nil, err
	}

	if interval == "" {
		interval = models.BillingIntervalMonth
	}

	now := time.Now()

	status := models.SubscriptionStatusActive
	periodEnd := now.AddDate(0, 1, 0)

	if interval == models.BillingIntervalYear {
		periodEnd = now.AddDate(1, 0, 0)
	}

	if subscribed.TrialDays > 0 {
		status = models.SubscriptionStatusTrialing
		periodEnd = now.AddDate(0, 0, subscribed.TrialDays)
	}

	created := models.Subscription{
		UserID:           userID,
		PlanID:           planID,
		Status:           status,
		Interval:         interval,
		CurrentPeriodEnd: periodEnd,
	}

	if err := db.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return &created, nil
}

// SetSubscriptionStatus transitions a subscription to a new lifecycle state.
func SetSubscriptionStatus(db *gorm.DB, id string, status models.SubscriptionStatus) (*models.Subscription, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	switch status {
	case models.SubscriptionStatusTrialing, models.SubscriptionStatusActive,
		models.SubscriptionStatusPastDue, models.SubscriptionStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: %q", ErrSubscriptionInvalidStatus, status)
	}

	stored, err := GetSubscription(db, id)
	if err != nil {
		return nil, err
	}

	stored.Status = status

	if err := db.Model(&models.Subscription{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	return stored, nil
}
