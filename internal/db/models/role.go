package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Role represents a role in the role-based access control (RBAC) system.
// A role is a named, order-irrelevant set of permission tokens that can be
// assigned to users. Examples include the seeded "Admin" and "Editor" roles.
type Role struct {
	Base
	// Name is the unique name of the role (e.g., "Admin", "Editor").
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255" json:"description,omitempty"`
	// Permissions is the JSON encoded set of permission tokens granted by this role.
	Permissions datatypes.JSON `json:"permissions"`
	// IsDefault marks the role that is auto-assigned to newly created users.
	IsDefault bool `gorm:"default:false" json:"isDefault"`
	// IsSystem indicates if this is a system role that cannot be deleted.
	IsSystem bool `gorm:"default:false" json:"isSystem"`
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}

// PermissionList decodes the role's permission set.
// A nil or empty column yields an empty list, never an error.
func (r *Role) PermissionList() []string {
	if len(r.Permissions) == 0 {
		return []string{}
	}

	var perms []string
	if err := json.Unmarshal(r.Permissions, &perms); err != nil {
		return []string{}
	}

	return perms
}

// SetPermissions encodes the given permission tokens into the JSON column.
func (r *Role) SetPermissions(perms []string) error {
	if perms == nil {
		perms = []string{}
	}

	out, err := json.Marshal(perms)
	if err != nil {
		return err
	}

	r.Permissions = out

	return nil
}
