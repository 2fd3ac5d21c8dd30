package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

// HasPermission reports whether the role grants the given permission token.
// A nil role denies everything. Evaluation is exact set membership over the
// role's stored token list; there are no wildcards and no hierarchy.
func HasPermission(role *models.Role, permission string) bool {
	if role == nil {
		return false
	}

	for _, perm := range role.PermissionList() {
		if perm == permission {
			return true
		}
	}

	return false
}

// ValidatePermissions checks that every token in the list exists in the
// catalog. Used when creating or updating roles so the stored sets stay
// inside the closed catalog.
func ValidatePermissions(permissions []string) error {
	for _, perm := range permissions {
		if !IsKnownPermission(perm) {
			return fmt.Errorf("%w: %q", ErrUnknownPermission, perm)
		}
	}

	return nil
}

// Service provides authorization checks backed by the database.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// UserHasPermission checks if a user has a specific permission.
// The check resolves the user's current role from the database so role edits
// take effect on the next request without re-login.
func (s *Service) UserHasPermission(userID, permission string) (bool, error) {
	role, err := s.userRole(userID)
	if err != nil {
		return false, err
	}

	return HasPermission(role, permission), nil
}

// UserHasAnyPermission checks if a user has at least one of the given permissions.
func (s *Service) UserHasAnyPermission(userID string, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return false, nil
	}

	role, err := s.userRole(userID)
	if err != nil {
		return false, err
	}

	for _, perm := range permissions {
		if HasPermission(role, perm) {
			return true, nil
		}
	}

	return false, nil
}

// UserHasAllPermissions checks if a user has all of the given permissions.
func (s *Service) UserHasAllPermissions(userID string, permissions []string) (bool, error) {
	role, err := s.userRole(userID)
	if err != nil {
		return false, err
	}

	for _, perm := range permissions {
		if !HasPermission(role, perm) {
			return false, nil
		}
	}

	return true, nil
}

// GetUserPermissions retrieves all permission tokens granted to a user
// through their role. A user without a role has no permissions.
func (s *Service) GetUserPermissions(userID string) ([]string, error) {
	role, err := s.userRole(userID)
	if err != nil {
		return nil, err
	}

	if role == nil {
		return []string{}, nil
	}

	return role.PermissionList(), nil
}

// AssignRoleToUser assigns a role to a user.
func (s *Service) AssignRoleToUser(userID, roleID string) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("role_id", roleID).Error
}

func (s *Service) userRole(userID string) (*models.Role, error) {
	var user models.User

	err := s.db.Preload("Role").Where("id = ?", userID).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return user.Role, nil
}
