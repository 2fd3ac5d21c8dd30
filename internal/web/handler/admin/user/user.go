// Package user provides the admin user management endpoints.
package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/role"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the base path of the user endpoints.
	Path = handler.APIPrefix + "/users"

	defaultPageSize = 25
	maxPageSize     = 100
)

// CreateRequest is the body for creating a user.
type CreateRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	RoleID    *string `json:"roleId"`
}

// UpdateRequest is the body for updating a user.
type UpdateRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	RoleID    *string `json:"roleId"`
	Active    *bool   `json:"active"`
}

// ResetPasswordRequest is the body for the admin password reset.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// Service is the user handler service.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	provider *auth.LocalProvider
}

// Handler is the user handler.
var Handler = Service{}

// Init initializes the user handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.provider = auth.NewLocalProvider(db)

	app.Get(Path, auth.RequirePermission(authService, auth.PermUsersView), s.List)
	app.Get(Path+"/:id", auth.RequirePermission(authService, auth.PermUsersView), s.Get)
	app.Post(Path, auth.RequirePermission(authService, auth.PermUsersCreate), s.Post)
	app.Put(Path+"/:id", auth.RequirePermission(authService, auth.PermUsersEdit), s.Put)
	app.Post(Path+"/:id/reset-password", auth.RequirePermission(authService, auth.PermUsersEdit), s.ResetPassword)
	app.Delete(Path+"/:id", auth.RequirePermission(authService, auth.PermUsersDelete), s.Delete)
}

// List returns a page of users.
func (s *Service) List(c *fiber.Ctx) error {
	limit, offset := handler.PageParams(c, defaultPageSize, maxPageSize)

	var active *bool
	if c.Query("active") != "" {
		value := c.QueryBool("active")
		active = &value
	}

	users, total, err := s.provider.ListUsers(active, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.RespondList(c, users, handler.ListMeta{Total: total, Limit: limit, Offset: offset})
}

// Get returns one user.
func (s *Service) Get(c *fiber.Ctx) error {
	user, err := s.provider.GetUserByID(c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "User not found")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to load user")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, user)
}

// Post creates a user. Without an explicit role the default role is assigned;
// if none is configured the user starts without permissions.
func (s *Service) Post(c *fiber.Ctx) error {
	var req CreateRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	roleID := req.RoleID
	if roleID == nil {
		defaultRole, err := role.GetDefault(s.db)
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve default role")
			return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}

		if defaultRole != nil {
			roleID = &defaultRole.ID
		}
	}

	user, err := s.provider.CreateUser(req.Username, req.Email, req.Password,
		req.FirstName, req.LastName, roleID)
	if errors.Is(err, auth.ErrUserNameOrEmailExists) {
		return handler.RespondError(c, fiber.StatusConflict, "Username or email already exists")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create user")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "user.create", user.ID, "Created user "+user.Username)

	return handler.Respond(c, fiber.StatusCreated, user)
}

// Put updates a user's profile, role and active flag.
func (s *Service) Put(c *fiber.Ctx) error {
	var req UpdateRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	id := c.Params("id")

	if _, err := s.provider.GetUserByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "User not found")
	} else if err != nil {
		log.Error().Err(err).Msg("failed to load user")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if err := s.provider.UpdateUser(id, req.Email, req.FirstName, req.LastName, req.RoleID); err != nil {
		log.Error().Err(err).Msg("failed to update user")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if req.Active != nil {
		var err error
		if *req.Active {
			err = s.provider.ActivateUser(id)
		} else {
			err = s.provider.DeactivateUser(id)
		}

		if err != nil {
			log.Error().Err(err).Msg("failed to toggle user active flag")
			return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}
	}

	user, err := s.provider.GetUserByID(id)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload user")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "user.update", id, "Updated user "+user.Username)

	return handler.Respond(c, fiber.StatusOK, user)
}

// ResetPassword sets a new password without knowing the old one.
func (s *Service) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	id := c.Params("id")

	if _, err := s.provider.GetUserByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "User not found")
	} else if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if err := s.provider.ResetPassword(id, req.Password); err != nil {
		log.Error().Err(err).Msg("failed to reset password")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "user.reset_password", id, "Reset user password")

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"reset": true})
}

// Delete soft deletes a user. Self-deletion is rejected.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if id == auth.CurrentUserID(c) {
		return handler.RespondError(c, fiber.StatusConflict, "You cannot delete your own account")
	}

	if _, err := s.provider.GetUserByID(id); errors.Is(err, gorm.ErrRecordNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "User not found")
	} else if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if err := s.provider.DeleteUser(id); err != nil {
		log.Error().Err(err).Msg("failed to delete user")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "user.delete", id, "Deleted user")

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (s *Service) logActivity(c *fiber.Ctx, action, entityID, description string) {
	if err := activity.Log(s.db, auth.CurrentUserID(c), action, "user", entityID, description); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}
}
