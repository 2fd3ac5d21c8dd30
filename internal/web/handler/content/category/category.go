// Package category provides the category management endpoints.
package category

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	categoryctl "github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/category"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the base path of the category endpoints.
	Path = handler.APIPrefix + "/categories"
)

// Request is the body for creating or updating a category.
type Request struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Slug        string  `json:"slug" validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"max=255"`
	ParentID    *string `json:"parentId"`
	Order       int     `json:"order"`
}

// Service is the category handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the category handler.
var Handler = Service{}

// Init initializes the category handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	gate := auth.RequirePermission(authService, auth.PermContentCategories)

	app.Get(Path, gate, s.List)
	app.Get(Path+"/:id", gate, s.Get)
	app.Post(Path, gate, s.Post)
	app.Put(Path+"/:id", gate, s.Put)
	app.Delete(Path+"/:id", gate, s.Delete)
}

// List returns all categories in tree order.
func (s *Service) List(c *fiber.Ctx) error {
	categories, err := categoryctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list categories")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, categories)
}

// Get returns one category.
func (s *Service) Get(c *fiber.Ctx) error {
	stored, err := categoryctl.Get(s.db, c.Params("id"))
	if errors.Is(err, categoryctl.ErrCategoryNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Category not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, stored)
}

// Post creates a category.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := categoryctl.Create(s.db, req.Name, req.Slug, req.Description, req.ParentID, req.Order)

	switch {
	case errors.Is(err, categoryctl.ErrCategoryAlreadyExists):
		return handler.RespondError(c, fiber.StatusConflict, "A category with that slug already exists")
	case errors.Is(err, categoryctl.ErrCategoryParentNotFound):
		return handler.RespondError(c, fiber.StatusBadRequest, "Parent category not found")
	case err != nil:
		log.Error().Err(err).Msg("failed to create category")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "category.create", created.ID, "Created category "+created.Name)

	return handler.Respond(c, fiber.StatusCreated, created)
}

// Put updates a category.
func (s *Service) Put(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	updated, err := categoryctl.Update(s.db, c.Params("id"), req.Name, req.Slug,
		req.Description, req.ParentID, req.Order)

	switch {
	case errors.Is(err, categoryctl.ErrCategoryNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Category not found")
	case errors.Is(err, categoryctl.ErrCategoryAlreadyExists):
		return handler.RespondError(c, fiber.StatusConflict, "A category with that slug already exists")
	case errors.Is(err, categoryctl.ErrCategoryParentNotFound):
		return handler.RespondError(c, fiber.StatusBadRequest, "Parent category not found")
	case errors.Is(err, categoryctl.ErrCategoryParentCycle):
		return handler.RespondError(c, fiber.StatusBadRequest, "Category cannot be moved under its own descendant")
	case err != nil:
		log.Error().Err(err).Msg("failed to update category")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "category.update", updated.ID, "Updated category "+updated.Name)

	return handler.Respond(c, fiber.StatusOK, updated)
}

// Delete removes a category without children.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	err := categoryctl.Delete(s.db, id)

	switch {
	case errors.Is(err, categoryctl.ErrCategoryNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Category not found")
	case errors.Is(err, categoryctl.ErrCategoryHasChildren):
		return handler.RespondError(c, fiber.StatusConflict, "Category still has child categories")
	case err != nil:
		log.Error().Err(err).Msg("failed to delete category")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "category.delete", id, "Deleted category")

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (s *Service) logActivity(c *fiber.Ctx, action, entityID, description string) {
	if err := activity.Log(s.db, auth.CurrentUserID(c), action, "category", entityID, description); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}
}
