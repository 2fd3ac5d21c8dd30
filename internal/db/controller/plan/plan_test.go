package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Plan{}, &models.Subscription{}, &models.User{}, &models.Role{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func makeUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Active:   true,
	}
	require.NoError(t, db.Create(&user).Error)

	return &user
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		fields        Fields
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			fields:        Fields{Name: "Pro"},
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			fields:        Fields{},
			expectedError: ErrPlanNameEmpty,
		},
		{
			name:          "unknown status",
			dbParam:       db,
			fields:        Fields{Name: "Pro", Status: "LIVE"},
			expectedError: ErrPlanInvalidStatus,
		},
		{
			name:    "successful create defaults to draft",
			dbParam: db,
			fields:  Fields{Name: "Pro", MonthlyPrice: 999, Features: []string{"api access"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM plans")
			}

			created, err := Create(tc.dbParam, tc.fields)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				require.NotNil(t, created)
				assert.Equal(t, models.PlanStatusDraft, created.Status)
				assert.Equal(t, int64(999), created.MonthlyPrice)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, Fields{Name: "Pro"})
	require.NoError(t, err)

	updated, err := Update(db, created.ID, Fields{
		Name:         "Pro Plus",
		MonthlyPrice: 1999,
		Status:       models.PlanStatusActive,
		IsPopular:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pro Plus", updated.Name)
	assert.Equal(t, models.PlanStatusActive, updated.Status)
	assert.True(t, updated.IsPopular)

	_, err = Update(db, "missing", Fields{Name: "X", Status: models.PlanStatusDraft})
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestSubscribe(t *testing.T) {
	db := setupTestDB(t)
	user := makeUser(t, db, "alice")

	paid, err := Create(db, Fields{Name: "Pro", Status: models.PlanStatusActive})
	require.NoError(t, err)

	trial, err := Create(db, Fields{Name: "Trial", Status: models.PlanStatusActive, TrialDays: 14})
	require.NoError(t, err)

	direct, err := Subscribe(db, user.ID, paid.ID, models.BillingIntervalMonth)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, direct.Status)

	trialing, err := Subscribe(db, user.ID, trial.ID, models.BillingIntervalYear)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusTrialing, trialing.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), trialing.CurrentPeriodEnd, time.Minute)

	_, err = Subscribe(db, user.ID, "missing", models.BillingIntervalMonth)
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestDeletePlanWithLiveSubscriptionsIsRejected(t *testing.T) {
	db := setupTestDB(t)
	user := makeUser(t, db, "alice")

	created, err := Create(db, Fields{Name: "Pro", Status: models.PlanStatusActive})
	require.NoError(t, err)

	sub, err := Subscribe(db, user.ID, created.ID, models.BillingIntervalMonth)
	require.NoError(t, err)

	err = Delete(db, created.ID)
	require.ErrorIs(t, err, ErrPlanInUse)

	// Cancelling the subscription unblocks the deletion.
	_, err = SetSubscriptionStatus(db, sub.ID, models.SubscriptionStatusCancelled)
	require.NoError(t, err)

	require.NoError(t, Delete(db, created.ID))

	err = Delete(db, created.ID)
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestSetSubscriptionStatus(t *testing.T) {
	db := setupTestDB(t)
	user := makeUser(t, db, "alice")

	created, err := Create(db, Fields{Name: "Pro", Status: models.PlanStatusActive})
	require.NoError(t, err)

	sub, err := Subscribe(db, user.ID, created.ID, models.BillingIntervalMonth)
	require.NoError(t, err)

	updated, err := SetSubscriptionStatus(db, sub.ID, models.SubscriptionStatusPastDue)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPastDue, updated.Status)

	_, err = SetSubscriptionStatus(db, sub.ID, "PAUSED")
	require.ErrorIs(t, err, ErrSubscriptionInvalidStatus)

	_, err = SetSubscriptionStatus(db, "missing", models.SubscriptionStatusActive)
	require.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestListSubscriptions(t *testing.T) {
	db := setupTestDB(t)
	alice := makeUser(t, db, "alice")
	bob := makeUser(t, db, "bob")

	pro, err := Create(db, Fields{Name: "Pro", Status: models.PlanStatusActive})
	require.NoError(t, err)

	basic, err := Create(db, Fields{Name: "Basic", Status: models.PlanStatusActive})
	require.NoError(t, err)

	_, err = Subscribe(db, alice.ID, pro.ID, models.BillingIntervalMonth)
	require.NoError(t, err)

	cancelled, err := Subscribe(db, bob.ID, basic.ID, models.BillingIntervalMonth)
	require.NoError(t, err)
	_, err = SetSubscriptionStatus(db, cancelled.ID, models.SubscriptionStatusCancelled)
	require.NoError(t, err)

	all, total, err := ListSubscriptions(db, "", "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	active, total, err := ListSubscriptions(db, models.SubscriptionStatusActive, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, active, 1)
	require.NotNil(t, active[0].Plan)
	assert.Equal(t, "Pro", active[0].Plan.Name)

	byPlan, total, err := ListSubscriptions(db, "", basic.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, byPlan, 1)
}
