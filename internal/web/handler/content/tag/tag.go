// Package tag provides the tag management endpoints.
package tag

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	tagctl "github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/tag"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the base path of the tag endpoints.
	Path = handler.APIPrefix + "/tags"
)

// Request is the body for creating or updating a tag.
type Request struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Slug  string `json:"slug" validate:"required,min=1,max=100"`
	Color string `json:"color" validate:"max=20"`
}

// Service is the tag handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the tag handler.
var Handler = Service{}

// Init initializes the tag handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	gate := auth.RequirePermission(authService, auth.PermContentTags)

	app.Get(Path, gate, s.List)
	app.Get(Path+"/:id", gate, s.Get)
	app.Post(Path, gate, s.Post)
	app.Put(Path+"/:id", gate, s.Put)
	app.Delete(Path+"/:id", gate, s.Delete)
}

// List returns all tags ordered by name.
func (s *Service) List(c *fiber.Ctx) error {
	tags, err := tagctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tags")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, tags)
}

// Get returns one tag.
func (s *Service) Get(c *fiber.Ctx) error {
	stored, err := tagctl.Get(s.db, c.Params("id"))
	if errors.Is(err, tagctl.ErrTagNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Tag not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, stored)
}

// Post creates a tag.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := tagctl.Create(s.db, req.Name, req.Slug, req.Color)
	if errors.Is(err, tagctl.ErrTagAlreadyExists) {
		return handler.RespondError(c, fiber.StatusConflict, "A tag with that slug already exists")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create tag")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "tag.create", created.ID, "Created tag "+created.Name)

	return handler.Respond(c, fiber.StatusCreated, created)
}

// Put updates a tag.
func (s *Service) Put(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	updated, err := tagctl.Update(s.db, c.Params("id"), req.Name, req.Slug, req.Color)

	switch {
	case errors.Is(err, tagctl.ErrTagNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Tag not found")
	case errors.Is(err, tagctl.ErrTagAlreadyExists):
		return handler.RespondError(c, fiber.StatusConflict, "A tag with that slug already exists")
	case err != nil:
		log.Error().Err(err).Msg("failed to update tag")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "tag.update", updated.ID, "Updated tag "+updated.Name)

	return handler.Respond(c, fiber.StatusOK, updated)
}

// Delete removes a tag.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	err := tagctl.Delete(s.db, id)
	if errors.Is(err, tagctl.ErrTagNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Tag not found")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to delete tag")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "tag.delete", id, "Deleted tag")

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (s *Service) logActivity(c *fiber.Ctx, action, entityID, description string) {
	if err := activity.Log(s.db, auth.CurrentUserID(c), action, "tag", entityID, description); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}
}
