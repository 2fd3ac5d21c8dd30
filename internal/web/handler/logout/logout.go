// Package logout handles session destruction.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/session"
)

const (
	// Path is the path of the logout endpoint.
	Path = "/logout"
)

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg

	app.Post(Path, s.Post)

	return nil
}

// Post destroys the current session and clears the cookie.
func (s *Service) Post(c *fiber.Ctx) error {
	sessionID := c.Cookies("session")
	if sessionID != "" {
		if err := session.Destroy(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to destroy session")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     "session",
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
	})

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"loggedOut": true})
}
