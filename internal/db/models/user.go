package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User represents a user account in the system.
// Users authenticate with a local password and carry at most one role.
// A user without a role has no permissions (default deny).
type User struct {
	Base
	// Active indicates whether the user account is active and can log in.
	Active bool `json:"active"`
	// Username is the unique username for login.
	Username string `gorm:"unique;size:100;not null" json:"username"`
	// Email is the user's email address.
	Email string `gorm:"size:255;not null" json:"email"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255" json:"-"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100" json:"firstName,omitempty"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100" json:"lastName,omitempty"`
	// RoleID is the ID of the role assigned to this user, nil for no role.
	RoleID *string `gorm:"type:uuid;column:role_id" json:"roleId,omitempty"`
	// Role is the associated role (users of a role block its deletion).
	Role *Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"role,omitempty"`
	// DeletedAt is the soft delete timestamp (nil if not deleted).
	DeletedAt *time.Time `json:"-"`
}

// TableName specifies the database table name for the User model.
// This overrides GORM's default pluralized table naming.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating user passwords.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
