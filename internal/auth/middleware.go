package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoPress-Admin/GoPress-Admin/internal/web/session"
)

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionData, ok := readSession(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		hasPermission, err := authService.UserHasPermission(sessionData.User.ID, permission)
		if err != nil {
			log.Error().Err(err).Str("user_id", sessionData.User.ID).Str("permission", permission).
				Msg("Failed to check permission")

			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		if !hasPermission {
			log.Warn().Str("user_id", sessionData.User.ID).Str("permission", permission).
				Msg("User lacks required permission")

			return fiber.NewError(fiber.StatusForbidden,
				"Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(authService *Service, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionData, ok := readSession(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		hasPermission, err := authService.UserHasAnyPermission(sessionData.User.ID, permissions)
		if err != nil {
			log.Error().Err(err).Str("user_id", sessionData.User.ID).Strs("permissions", permissions).
				Msg("Failed to check permissions")

			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		if !hasPermission {
			log.Warn().Str("user_id", sessionData.User.ID).Strs("permissions", permissions).
				Msg("User lacks required permissions")

			return fiber.NewError(fiber.StatusForbidden,
				"Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// RequireAllPermissions creates Fiber middleware that requires all the given permissions.
func RequireAllPermissions(authService *Service, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionData, ok := readSession(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		hasPermissions, err := authService.UserHasAllPermissions(sessionData.User.ID, permissions)
		if err != nil {
			log.Error().Err(err).Str("user_id", sessionData.User.ID).Strs("permissions", permissions).
				Msg("Failed to check permissions")

			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		if !hasPermissions {
			log.Warn().Str("user_id", sessionData.User.ID).Strs("permissions", permissions).
				Msg("User lacks required permissions")

			return fiber.NewError(fiber.StatusForbidden,
				"Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// HasPermissionInContext checks if the current user in the Fiber context has a permission.
// Useful for conditional branches inside handlers, e.g. own-versus-all post editing.
func HasPermissionInContext(c *fiber.Ctx, authService *Service, permission string) bool {
	sessionData, ok := readSession(c)
	if !ok {
		return false
	}

	hasPermission, err := authService.UserHasPermission(sessionData.User.ID, permission)
	if err != nil {
		return false
	}

	return hasPermission
}

// CurrentUserID returns the ID of the authenticated user, or an empty string
// when the request carries no valid session.
func CurrentUserID(c *fiber.Ctx) string {
	sessionData, ok := readSession(c)
	if !ok {
		return ""
	}

	return sessionData.User.ID
}

// readSession loads and validates the session referenced by the request cookie.
func readSession(c *fiber.Ctx) (*session.Data, bool) {
	sessionID := c.Cookies("session")
	if sessionID == "" {
		return nil, false
	}

	sessionData := new(session.Data)
	if err := sessionData.Read(sessionID); err != nil {
		return nil, false
	}

	if sessionData.User.ID == "" {
		return nil, false
	}

	return sessionData, true
}
