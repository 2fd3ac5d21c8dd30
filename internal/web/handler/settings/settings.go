// Package settings provides the site settings endpoints.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	settingctl "github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/setting"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the base path of the settings endpoints.
	Path = handler.APIPrefix + "/settings"
)

// Entry is one setting in a bulk update request.
type Entry struct {
	Key   string `json:"key" validate:"required,min=1,max=100"`
	Value string `json:"value"`
	Group string `json:"group" validate:"max=100"`
}

// UpdateRequest is the body for a bulk settings upsert.
type UpdateRequest struct {
	Settings []Entry `json:"settings" validate:"required,min=1,dive"`
}

// Service is the settings handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, auth.RequirePermission(authService, auth.PermSettingsView), s.List)
	app.Get(Path+"/:key", auth.RequirePermission(authService, auth.PermSettingsView), s.Get)
	app.Put(Path, auth.RequirePermission(authService, auth.PermSettingsEdit), s.Put)
	app.Delete(Path+"/:key", auth.RequirePermission(authService, auth.PermSettingsEdit), s.Delete)
}

// List returns all settings, optionally filtered by group.
func (s *Service) List(c *fiber.Ctx) error {
	group := c.Query("group")

	var err error
	var settings interface{}

	if group != "" {
		settings, err = settingctl.GetByGroup(s.db, group)
	} else {
		settings, err = settingctl.GetAll(s.db)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to list settings")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, settings)
}

// Get returns one setting by key.
func (s *Service) Get(c *fiber.Ctx) error {
	stored, err := settingctl.Get(s.db, c.Params("key"))
	if errors.Is(err, settingctl.ErrSettingNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Setting not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, stored)
}

// Put upserts a batch of settings in one request.
func (s *Service) Put(c *fiber.Ctx) error {
	var req UpdateRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	for _, entry := range req.Settings {
		if _, err := settingctl.Set(s.db, entry.Key, entry.Value, entry.Group); err != nil {
			log.Error().Err(err).Str("key", entry.Key).Msg("failed to save setting")
			return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}
	}

	s.logActivity(c, "settings.update", "", "Updated settings")

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"updated": len(req.Settings)})
}

// Delete removes one setting by key.
func (s *Service) Delete(c *fiber.Ctx) error {
	key := c.Params("key")

	err := settingctl.Delete(s.db, key)
	if errors.Is(err, settingctl.ErrSettingNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Setting not found")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to delete setting")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "settings.delete", key, "Deleted setting "+key)

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (s *Service) logActivity(c *fiber.Ctx, action, entityID, description string) {
	if err := activity.Log(s.db, auth.CurrentUserID(c), action, "setting", entityID, description); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}
}
