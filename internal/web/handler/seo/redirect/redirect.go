// Package redirect provides the SEO redirect management endpoints.
package redirect

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	redirectctl "github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/redirect"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the base path of the redirect endpoints.
	Path = handler.APIPrefix + "/redirects"

	// ResolvePath looks up the rule for a source path and counts the hit.
	ResolvePath = Path + "/resolve"
)

// Request is the body for creating or updating a redirect rule.
type Request struct {
	Source      string `json:"source" validate:"required,min=1,max=500"`
	Destination string `json:"destination" validate:"required,min=1,max=500"`
	StatusCode  int    `json:"statusCode"`
	IsActive    *bool  `json:"isActive"`
}

func (r *Request) active() bool {
	if r.IsActive == nil {
		return true
	}

	return *r.IsActive
}

// Service is the redirect handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the redirect handler.
var Handler = Service{}

// Init initializes the redirect handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	gate := auth.RequirePermission(authService, auth.PermSeoRedirects)

	app.Get(Path, gate, s.List)
	// Registered before the /:id routes so "resolve" is not taken for an id.
	app.Get(ResolvePath, gate, s.Resolve)
	app.Get(Path+"/:id", gate, s.Get)
	app.Post(Path, gate, s.Post)
	app.Put(Path+"/:id", gate, s.Put)
	app.Delete(Path+"/:id", gate, s.Delete)
}

// List returns all redirect rules ordered by source.
func (s *Service) List(c *fiber.Ctx) error {
	redirects, err := redirectctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list redirects")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, redirects)
}

// Get returns one redirect rule.
func (s *Service) Get(c *fiber.Ctx) error {
	stored, err := redirectctl.Get(s.db, c.Params("id"))
	if errors.Is(err, redirectctl.ErrRedirectNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Redirect not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, stored)
}

// Resolve returns the destination for a source path and increments the
// rule's hit counter. Inactive rules resolve like missing ones.
func (s *Service) Resolve(c *fiber.Ctx) error {
	source := c.Query("source")
	if source == "" {
		return handler.RespondError(c, fiber.StatusBadRequest, "Missing source query parameter")
	}

	stored, err := redirectctl.GetBySource(s.db, source)
	if errors.Is(err, redirectctl.ErrRedirectNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Redirect not found")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to resolve redirect")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if !stored.IsActive {
		return handler.RespondError(c, fiber.StatusNotFound, "Redirect not found")
	}

	if err := redirectctl.RecordHit(s.db, stored.ID); err != nil {
		log.Error().Err(err).Str("redirect", stored.ID).Msg("failed to record redirect hit")
	}

	return handler.Respond(c, fiber.StatusOK, fiber.Map{
		"destination": stored.Destination,
		"statusCode":  stored.StatusCode,
	})
}

// Post creates a redirect rule.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := redirectctl.Create(s.db, req.Source, req.Destination, req.StatusCode, req.active())

	switch {
	case errors.Is(err, redirectctl.ErrRedirectAlreadyExists):
		return handler.RespondError(c, fiber.StatusConflict, "A redirect for that source already exists")
	case errors.Is(err, redirectctl.ErrRedirectLoop),
		errors.Is(err, redirectctl.ErrRedirectInvalidStatus):
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("failed to create redirect")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "redirect.create", created.ID, "Created redirect "+created.Source)

	return handler.Respond(c, fiber.StatusCreated, created)
}

// Put updates a redirect rule.
func (s *Service) Put(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	statusCode := req.StatusCode
	if statusCode == 0 {
		statusCode = 301
	}

	updated, err := redirectctl.Update(s.db, c.Params("id"), req.Source, req.Destination,
		statusCode, req.active())

	switch {
	case errors.Is(err, redirectctl.ErrRedirectNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Redirect not found")
	case errors.Is(err, redirectctl.ErrRedirectAlreadyExists):
		return handler.RespondError(c, fiber.StatusConflict, "A redirect for that source already exists")
	case errors.Is(err, redirectctl.ErrRedirectLoop),
		errors.Is(err, redirectctl.ErrRedirectInvalidStatus):
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("failed to update redirect")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "redirect.update", updated.ID, "Updated redirect "+updated.Source)

	return handler.Respond(c, fiber.StatusOK, updated)
}

// Delete removes a redirect rule.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	err := redirectctl.Delete(s.db, id)
	if errors.Is(err, redirectctl.ErrRedirectNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Redirect not found")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to delete redirect")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "redirect.delete", id, "Deleted redirect")

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (s *Service) logActivity(c *fiber.Ctx, action, entityID, description string) {
	if err := activity.Log(s.db, auth.CurrentUserID(c), action, "redirect", entityID, description); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}
}
