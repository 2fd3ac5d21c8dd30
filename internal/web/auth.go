package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/session"
)

// publicPrefixes lists paths reachable without a session.
var publicPrefixes = []string{
	"/login",
	"/checkalive",
	"/metrics",
}

// AuthMiddleware rejects unauthenticated API requests. Individual routes
// still enforce their own permission checks on top of this.
func AuthMiddleware(c *fiber.Ctx) error {
	path := strings.ToLower(c.Path())

	for _, prefix := range publicPrefixes {
		// Whole-segment match so lookalikes such as /loginx stay protected.
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return c.Next()
		}
	}

	sessionID := c.Cookies("session")
	if sessionID == "" {
		return handler.RespondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionID); err != nil || sessData.User.ID == "" {
		return handler.RespondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	return c.Next()
}
