// Package login handles session creation for the admin API.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/session"
)

const (
	// Path is the path of the login endpoint.
	Path = "/login"
)

// Request is the login request body.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	provider *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.provider = auth.NewLocalProvider(db)

	app.Post(Path, s.Post)

	return nil
}

// Post handles the login request.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Username and password are required")
	}

	user, err := s.provider.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserAccountDisabled) {
			return handler.RespondError(c, fiber.StatusForbidden, "Account is disabled")
		}

		// Not-found and bad-password collapse into one message so the
		// endpoint does not leak which usernames exist.
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidPassword) {
			return handler.RespondError(c, fiber.StatusUnauthorized, "Invalid username or password")
		}

		log.Error().Err(err).Msg("Login failed")

		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	userSession := &session.Data{User: *user}

	if err := userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	cookieSettings := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	if err := activity.Log(s.db, user.ID, "auth.login", "user", user.ID, "User logged in"); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}

	return handler.Respond(c, fiber.StatusOK, user)
}
