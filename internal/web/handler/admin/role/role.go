// Package role provides the admin role management endpoints and the
// permission catalog used by the role editor.
package role

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	rolectl "github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/role"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the base path of the role endpoints.
	Path = handler.APIPrefix + "/roles"

	// PermissionsPath serves the grouped permission catalog.
	PermissionsPath = Path + "/permissions"
)

// Request is the body for creating or updating a role.
type Request struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	IsDefault   bool     `json:"isDefault"`
}

// Response wraps a role with its assigned user count.
type Response struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
	IsDefault   bool     `json:"isDefault"`
	IsSystem    bool     `json:"isSystem"`
	UsersCount  int64    `json:"usersCount"`
}

// Service is the role handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the role handler.
var Handler = Service{}

// Init initializes the role handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	// The catalog route must be registered before the :id routes.
	app.Get(PermissionsPath, auth.RequirePermission(authService, auth.PermSystemRoles), s.GetPermissions)

	app.Get(Path, auth.RequirePermission(authService, auth.PermSystemRoles), s.List)
	app.Get(Path+"/:id", auth.RequirePermission(authService, auth.PermSystemRoles), s.Get)
	app.Post(Path, auth.RequirePermission(authService, auth.PermSystemRoles), s.Post)
	app.Put(Path+"/:id", auth.RequirePermission(authService, auth.PermSystemRoles), s.Put)
	app.Delete(Path+"/:id", auth.RequirePermission(authService, auth.PermSystemRoles), s.Delete)
}

// GetPermissions returns the grouped permission catalog.
func (s *Service) GetPermissions(c *fiber.Ctx) error {
	return handler.Respond(c, fiber.StatusOK, auth.Catalog())
}

// List returns all roles with their user counts.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := rolectl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list roles")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	responses := make([]Response, 0, len(roles))

	for i := range roles {
		count, err := rolectl.UsersCount(s.db, roles[i].ID)
		if err != nil {
			log.Error().Err(err).Msg("failed to count role users")
			return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}

		responses = append(responses, Response{
			ID:          roles[i].ID,
			Name:        roles[i].Name,
			Description: roles[i].Description,
			Permissions: roles[i].PermissionList(),
			IsDefault:   roles[i].IsDefault,
			IsSystem:    roles[i].IsSystem,
			UsersCount:  count,
		})
	}

	return handler.Respond(c, fiber.StatusOK, responses)
}

// Get returns one role.
func (s *Service) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	stored, err := rolectl.Get(s.db, id)
	if errors.Is(err, rolectl.ErrRoleNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Role not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	count, err := rolectl.UsersCount(s.db, id)
	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, Response{
		ID:          stored.ID,
		Name:        stored.Name,
		Description: stored.Description,
		Permissions: stored.PermissionList(),
		IsDefault:   stored.IsDefault,
		IsSystem:    stored.IsSystem,
		UsersCount:  count,
	})
}

// Post creates a role.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := rolectl.Create(s.db, req.Name, req.Description, req.Permissions, req.IsDefault)

	switch {
	case errors.Is(err, rolectl.ErrRoleAlreadyExists):
		return handler.RespondError(c, fiber.StatusConflict, "A role with that name already exists")
	case errors.Is(err, auth.ErrUnknownPermission):
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("failed to create role")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "role.create", created.ID, "Created role "+created.Name)

	return handler.Respond(c, fiber.StatusCreated, created)
}

// Put updates a role.
func (s *Service) Put(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	updated, err := rolectl.Update(s.db, c.Params("id"), req.Name, req.Description,
		req.Permissions, req.IsDefault)

	switch {
	case errors.Is(err, rolectl.ErrRoleNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Role not found")
	case errors.Is(err, rolectl.ErrRoleAlreadyExists):
		return handler.RespondError(c, fiber.StatusConflict, "A role with that name already exists")
	case errors.Is(err, rolectl.ErrSystemRole):
		return handler.RespondError(c, fiber.StatusConflict, "System roles cannot be renamed")
	case errors.Is(err, auth.ErrUnknownPermission):
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("failed to update role")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "role.update", updated.ID, "Updated role "+updated.Name)

	return handler.Respond(c, fiber.StatusOK, updated)
}

// Delete removes a role unless users still carry it or it is a system role.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	err := rolectl.Delete(s.db, id)

	switch {
	case errors.Is(err, rolectl.ErrRoleNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Role not found")
	case errors.Is(err, rolectl.ErrRoleInUse):
		return handler.RespondError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, rolectl.ErrSystemRole):
		return handler.RespondError(c, fiber.StatusConflict, "System roles cannot be deleted")
	case err != nil:
		log.Error().Err(err).Msg("failed to delete role")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "role.delete", id, "Deleted role")

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (s *Service) logActivity(c *fiber.Ctx, action, entityID, description string) {
	if err := activity.Log(s.db, auth.CurrentUserID(c), action, "role", entityID, description); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}
}
