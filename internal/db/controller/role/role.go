// Package role provides CRUD operations for managing roles and their
// permission sets.
package role

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

const (
	idQueryPattern   = "id = ?"
	nameQueryPattern = "name = ?"
)

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameEmpty is returned when attempting to create/update a role with an empty name.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrRoleAlreadyExists is returned when attempting to create a role whose name is taken.
	ErrRoleAlreadyExists = errors.New("role already exists")
	// ErrRoleInUse is returned when attempting to delete a role that still has users assigned.
	ErrRoleInUse = errors.New("role has users assigned")
	// ErrSystemRole is returned when attempting to delete or rename a system role.
	ErrSystemRole = errors.New("system role cannot be modified")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a role by its ID.
func Get(db *gorm.DB, id string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var role models.Role
	result := db.Where(idQueryPattern, id).First(&role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &role, nil
}

// GetByName retrieves a role by its unique name.
func GetByName(db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	var role models.Role
	result := db.Where(nameQueryPattern, name).First(&role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &role, nil
}

// GetDefault retrieves the role marked as default for new users, or nil when
// no role carries the flag.
func GetDefault(db *gorm.DB) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var role models.Role
	result := db.Where("is_default = ?", true).First(&role)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &role, nil
}

// GetAll retrieves all roles ordered by name.
func GetAll(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role
	result := db.Order("name ASC").Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}

// UsersCount returns the number of non-deleted users assigned to a role.
func UsersCount(db *gorm.DB, id string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.User{}).
		Where("role_id = ? AND deleted_at IS NULL", id).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// Create creates a new role with the given permission tokens. Every token
// must exist in the catalog.
func Create(db *gorm.DB, name, description string, permissions []string, isDefault bool) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	if err := auth.ValidatePermissions(permissions); err != nil {
		return nil, err
	}

	var existing models.Role
	result := db.Where(nameQueryPattern, name).First(&existing)
	if result.Error == nil {
		return nil, ErrRoleAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	role := &models.Role{
		Name:        name,
		Description: description,
		IsDefault:   isDefault,
	}
	if err := role.SetPermissions(permissions); err != nil {
		return nil, fmt.Errorf("failed to encode permissions: %w", err)
	}

	// Creating a new default clears the flag from every other role inside
	// the same transaction so at most one default exists.
	err := db.Transaction(func(tx *gorm.DB) error {
		if isDefault {
			if err := tx.Model(&models.Role{}).
				Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		return tx.Create(role).Error
	})
	if err != nil {
		return nil, err
	}

	return role, nil
}

// Update updates a role's name, description, permission set and default flag.
// System roles keep their name but may have their description and
// permissions changed.
func Update(
	db *gorm.DB,
	id, name, description string,
	permissions []string,
	isDefault bool,
) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	if err := auth.ValidatePermissions(permissions); err != nil {
		return nil, err
	}

	role, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if role.IsSystem && role.Name != name {
		return nil, ErrSystemRole
	}

	if role.Name != name {
		var existing models.Role

		result := db.Where("name = ? AND id <> ?", name, id).First(&existing)
		if result.Error == nil {
			return nil, ErrRoleAlreadyExists
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, result.Error
		}
	}

	role.Name = name
	role.Description = description
	role.IsDefault = isDefault
	if err := role.SetPermissions(permissions); err != nil {
		return nil, fmt.Errorf("failed to encode permissions: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if isDefault {
			if err := tx.Model(&models.Role{}).
				Where("is_default = ? AND id <> ?", true, id).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		return tx.Save(role).Error
	})
	if err != nil {
		return nil, err
	}

	return role, nil
}

// Delete deletes a role. Roles with users assigned and system roles are
// protected and cannot be deleted.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	role, err := Get(db, id)
	if err != nil {
		return err
	}

	if role.IsSystem {
		return ErrSystemRole
	}

	count, err := UsersCount(db, id)
	if err != nil {
		return err
	}

	if count > 0 {
		return fmt.Errorf("%w: %d user(s)", ErrRoleInUse, count)
	}

	result := db.Where(idQueryPattern, id).Delete(&models.Role{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoleNotFound
	}

	return nil
}
