// Package template provides the email template management and send endpoints.
package template

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/emailtpl"
	"github.com/GoPress-Admin/GoPress-Admin/internal/mailer"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the base path of the email template endpoints.
	Path = handler.APIPrefix + "/email-templates"
)

// Request is the body for creating or updating a template.
type Request struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Slug        string   `json:"slug" validate:"required,min=1,max=100"`
	Subject     string   `json:"subject" validate:"required,min=1,max=255"`
	HTMLContent string   `json:"htmlContent"`
	TextContent string   `json:"textContent"`
	Variables   []string `json:"variables"`
	Description string   `json:"description" validate:"max=255"`
	IsActive    *bool    `json:"isActive"`
}

func (r *Request) fields() emailtpl.Fields {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	return emailtpl.Fields{
		Name:        r.Name,
		Slug:        r.Slug,
		Subject:     r.Subject,
		HTMLContent: r.HTMLContent,
		TextContent: r.TextContent,
		Variables:   r.Variables,
		Description: r.Description,
		IsActive:    active,
	}
}

// SendRequest is the body for sending a template.
type SendRequest struct {
	Recipients []string          `json:"recipients" validate:"required,min=1,dive,email"`
	Variables  map[string]string `json:"variables"`
}

// PreviewRequest is the body for rendering a template without sending it.
type PreviewRequest struct {
	Variables map[string]string `json:"variables"`
}

// Service is the email template handler service.
type Service struct {
	cfg    *config.Config
	db     *gorm.DB
	mailer *mailer.Mailer
}

// Handler is the email template handler.
var Handler = Service{}

// Init initializes the email template handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.mailer = mailer.New(db, &cfg.Mail)

	gate := auth.RequirePermission(authService, auth.PermEmailTemplates)

	app.Get(Path, gate, s.List)
	app.Get(Path+"/:id", gate, s.Get)
	app.Post(Path, gate, s.Post)
	app.Put(Path+"/:id", gate, s.Put)
	app.Delete(Path+"/:id", gate, s.Delete)
	app.Post(Path+"/:id/preview", gate, s.Preview)
	app.Post(Path+"/:id/send", auth.RequirePermission(authService, auth.PermEmailSend), s.Send)
}

// List returns all templates ordered by name.
func (s *Service) List(c *fiber.Ctx) error {
	templates, err := emailtpl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list email templates")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, templates)
}

// Get returns one template.
func (s *Service) Get(c *fiber.Ctx) error {
	stored, err := emailtpl.Get(s.db, c.Params("id"))
	if errors.Is(err, emailtpl.ErrTemplateNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Email template not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, stored)
}

// Post creates a template.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := emailtpl.Create(s.db, req.fields())
	if errors.Is(err, emailtpl.ErrTemplateAlreadyExists) {
		return handler.RespondError(c, fiber.StatusConflict, "An email template with that slug already exists")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create email template")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "email_template.create", created.ID, "Created email template "+created.Name)

	return handler.Respond(c, fiber.StatusCreated, created)
}

// Put updates a template.
func (s *Service) Put(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	updated, err := emailtpl.Update(s.db, c.Params("id"), req.fields())

	switch {
	case errors.Is(err, emailtpl.ErrTemplateNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Email template not found")
	case errors.Is(err, emailtpl.ErrTemplateAlreadyExists):
		return handler.RespondError(c, fiber.StatusConflict, "An email template with that slug already exists")
	case err != nil:
		log.Error().Err(err).Msg("failed to update email template")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "email_template.update", updated.ID, "Updated email template "+updated.Name)

	return handler.Respond(c, fiber.StatusOK, updated)
}

// Delete removes a template.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	err := emailtpl.Delete(s.db, id)
	if errors.Is(err, emailtpl.ErrTemplateNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Email template not found")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to delete email template")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "email_template.delete", id, "Deleted email template")

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// Preview renders a template with the given variables without sending it.
func (s *Service) Preview(c *fiber.Ctx) error {
	var req PreviewRequest

	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	stored, err := emailtpl.Get(s.db, c.Params("id"))
	if errors.Is(err, emailtpl.ErrTemplateNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Email template not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, mailer.RenderTemplate(stored, req.Variables))
}

// Send delivers a template to the given recipients.
func (s *Service) Send(c *fiber.Ctx) error {
	var req SendRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	stored, err := emailtpl.Get(s.db, c.Params("id"))
	if errors.Is(err, emailtpl.ErrTemplateNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Email template not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	err = s.mailer.SendTemplate(stored.Slug, req.Recipients, req.Variables)

	switch {
	case errors.Is(err, mailer.ErrTemplateInactive):
		return handler.RespondError(c, fiber.StatusConflict, "Email template is inactive")
	case errors.Is(err, mailer.ErrNoRecipients):
		return handler.RespondError(c, fiber.StatusBadRequest, "No recipients given")
	case err != nil:
		log.Error().Err(err).Msg("failed to send email")
		return handler.RespondError(c, fiber.StatusBadGateway, "Email delivery failed")
	}

	s.logActivity(c, "email_template.send", stored.ID, "Sent email template "+stored.Name)

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"sent": len(req.Recipients)})
}

func (s *Service) logActivity(c *fiber.Ctx, action, entityID, description string) {
	if err := activity.Log(s.db, auth.CurrentUserID(c), action, "email_template", entityID, description); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}
}
