// Package activitylog exposes the read-only audit trail endpoint.
package activitylog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the path of the activity log endpoint.
	Path = handler.APIPrefix + "/activity"
)

// Service is the activity log handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the activity log handler.
var Handler = Service{}

// Init initializes the activity log handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, auth.RequirePermission(authService, auth.PermSystemActivity), s.List)
}

// List returns a page of audit entries, newest first. The trail is
// append-only; there are no write endpoints.
func (s *Service) List(c *fiber.Ctx) error {
	limit, offset := handler.PageParams(c, activity.DefaultPageSize, activity.MaxPageSize)

	filter := activity.Filter{
		UserID: c.Query("userId"),
		Entity: c.Query("entity"),
		Action: c.Query("action"),
		Limit:  limit,
		Offset: offset,
	}

	entries, total, err := activity.List(s.db, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list activity log")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.RespondList(c, entries, handler.ListMeta{Total: total, Limit: limit, Offset: offset})
}
