package auth

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

const whereID = "id = ?"

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user against the local database.
func (p *LocalProvider) Authenticate(username, password string) (*models.User, error) {
	var user models.User

	err := p.db.Preload("Role").
		Where("username = ? AND deleted_at IS NULL", username).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return &user, nil
}

// CreateUser creates a new local user. When roleID is nil the user is created
// without a role and therefore without permissions.
func (p *LocalProvider) CreateUser(
	username, email, password, firstName, lastName string,
	roleID *string,
) (*models.User, error) {
	var existingUser models.User

	err := p.db.Where("username = ? OR email = ?", username, email).First(&existingUser).Error
	if err == nil {
		return nil, ErrUserNameOrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		Active:    true,
		Username:  username,
		Email:     email,
		Password:  models.HashPassword(password),
		FirstName: firstName,
		LastName:  lastName,
		RoleID:    roleID,
	}

	if err := p.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// UpdateUser updates an existing local user.
func (p *LocalProvider) UpdateUser(userID, email, firstName, lastName string, roleID *string) error {
	updates := map[string]interface{}{
		"email":      email,
		"first_name": firstName,
		"last_name":  lastName,
		"role_id":    roleID,
	}

	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Updates(updates).Error
}

// ChangePassword changes a user's password after verifying the old one.
func (p *LocalProvider) ChangePassword(userID, oldPassword, newPassword string) error {
	var user models.User
	if err := p.db.Where(whereID, userID).First(&user).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("password", models.HashPassword(newPassword)).Error
}

// ResetPassword resets a user's password (admin function).
func (p *LocalProvider) ResetPassword(userID, newPassword string) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("password", models.HashPassword(newPassword)).Error
}

// ActivateUser activates a user account.
func (p *LocalProvider) ActivateUser(userID string) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("active", true).Error
}

// DeactivateUser deactivates a user account.
func (p *LocalProvider) DeactivateUser(userID string) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("active", false).Error
}

// DeleteUser soft deletes a user. Soft-deleted users keep their rows so the
// activity log and post authorship stay resolvable.
func (p *LocalProvider) DeleteUser(userID string) error {
	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"active":     false,
		}).Error
}

// GetUserByID retrieves a user by ID with its role preloaded.
func (p *LocalProvider) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	if err := p.db.Preload("Role").Where(whereID, userID).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (p *LocalProvider) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := p.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// ListUsers lists non-deleted users with optional filters.
func (p *LocalProvider) ListUsers(active *bool, limit, offset int) ([]models.User, int64, error) {
	var users []models.User

	var total int64

	query := p.db.Model(&models.User{}).
		Preload("Role").
		Where("deleted_at IS NULL")

	if active != nil {
		query = query.Where("active = ?", *active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Limit(limit).Offset(offset).Order("username ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
