// Package backup exposes the export and restore endpoints for the reference
// tables.
package backup

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	backupsvc "github.com/GoPress-Admin/GoPress-Admin/internal/backup"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	"github.com/GoPress-Admin/GoPress-Admin/internal/storage"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the base path of the backup endpoints.
	Path = handler.APIPrefix + "/backups"

	defaultPageSize = 25
	maxPageSize     = 100
)

// CreateRequest is the body for triggering an export.
type CreateRequest struct {
	Name string `json:"name" validate:"max=255"`
}

// RestoreRequest selects the tables to replay from a stored backup. Tables
// omitted or false in the options object are skipped; an empty body restores
// everything.
type RestoreRequest struct {
	Options *backupsvc.Options `json:"options"`
}

// Service is the backup handler service.
type Service struct {
	cfg     *config.Config
	db      *gorm.DB
	manager *backupsvc.Manager
}

// Handler is the backup handler.
var Handler = Service{}

// Init initializes the backup handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB,
	authService *auth.Service, store storage.Backend) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.manager = backupsvc.NewManager(db, store)

	gate := auth.RequirePermission(authService, auth.PermSystemBackups)

	app.Get(Path, gate, s.List)
	app.Post(Path, gate, s.Post)
	app.Post(Path+"/restore-upload", gate, s.RestoreUpload)
	app.Get(Path+"/:id", gate, s.Get)
	app.Get(Path+"/:id/download", gate, s.Download)
	app.Post(Path+"/:id/restore", gate, s.Restore)
	app.Delete(Path+"/:id", gate, s.Delete)
}

// List returns a page of backup records, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	limit, offset := handler.PageParams(c, defaultPageSize, maxPageSize)

	records, total, err := s.manager.List(limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list backups")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.RespondList(c, records, handler.ListMeta{Total: total, Limit: limit, Offset: offset})
}

// Get returns one backup record.
func (s *Service) Get(c *fiber.Ctx) error {
	record, err := s.manager.Get(c.Params("id"))
	if errors.Is(err, backupsvc.ErrBackupNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Backup not found")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to load backup")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, record)
}

// Post runs an export. A failed export still answers 200 with the FAILED
// record so the UI can show the stored error.
func (s *Service) Post(c *fiber.Ctx) error {
	var req CreateRequest

	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	record, err := s.manager.Export(c.Context(), req.Name, auth.CurrentUserID(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to create backup record")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "backup.create", record.ID, "Created backup "+record.Name)

	return handler.Respond(c, fiber.StatusCreated, record)
}

// Download streams the exported JSON document.
func (s *Service) Download(c *fiber.Ctx) error {
	raw, record, err := s.manager.Download(c.Context(), c.Params("id"))

	switch {
	case errors.Is(err, backupsvc.ErrBackupNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Backup not found")
	case errors.Is(err, backupsvc.ErrBackupNotCompleted):
		return handler.RespondError(c, fiber.StatusConflict, "Backup is not completed")
	case err != nil:
		log.Error().Err(err).Msg("failed to download backup")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+record.FileName+`"`)

	return c.Status(fiber.StatusOK).Send(raw)
}

// Restore replays a stored backup into the database. Rows that cannot be
// written come back as warnings, not as a failure.
func (s *Service) Restore(c *fiber.Ctx) error {
	var req RestoreRequest

	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	opts := allTables()
	if req.Options != nil {
		opts = *req.Options
	}

	if !opts.Any() {
		return handler.RespondError(c, fiber.StatusBadRequest, "No tables selected")
	}

	result, record, err := s.manager.RestoreRecord(c.Context(), c.Params("id"), opts)

	switch {
	case errors.Is(err, backupsvc.ErrBackupNotFound):
		return handler.RespondError(c, fiber.StatusNotFound, "Backup not found")
	case errors.Is(err, backupsvc.ErrBackupNotCompleted):
		return handler.RespondError(c, fiber.StatusConflict, "Backup is not completed")
	case errors.Is(err, backupsvc.ErrInvalidFormat):
		return handler.RespondError(c, fiber.StatusUnprocessableEntity, "Backup document is malformed")
	case err != nil:
		log.Error().Err(err).Msg("failed to restore backup")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "backup.restore", record.ID,
		"Restored backup "+record.Name+" from "+record.CreatedAt.Format("2006-01-02 15:04"))

	return handler.Respond(c, fiber.StatusOK, result)
}

// RestoreUpload replays an uploaded backup document without a stored record.
// The optional options form field carries the same per-table boolean object
// as RestoreRequest; without it every table is restored.
func (s *Service) RestoreUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Backup file is missing")
	}

	opts := allTables()

	if rawOpts := c.FormValue("options"); rawOpts != "" {
		var selected backupsvc.Options
		if err := json.Unmarshal([]byte(rawOpts), &selected); err != nil {
			return handler.RespondError(c, fiber.StatusBadRequest, "Invalid options field")
		}

		opts = selected
	}

	if !opts.Any() {
		return handler.RespondError(c, fiber.StatusBadRequest, "No tables selected")
	}

	opened, err := file.Open()
	if err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Backup file cannot be read")
	}
	defer opened.Close()

	raw, err := io.ReadAll(opened)
	if err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Backup file cannot be read")
	}

	doc, err := backupsvc.ParseDocument(raw)
	if err != nil {
		return handler.RespondError(c, fiber.StatusUnprocessableEntity, "Backup document is malformed")
	}

	result, err := backupsvc.Restore(s.db, doc, opts)
	if err != nil {
		log.Error().Err(err).Msg("failed to restore uploaded backup")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "backup.restore_upload", "",
		"Restored uploaded backup from "+doc.CreatedAt.Format("2006-01-02 15:04"))

	return handler.Respond(c, fiber.StatusOK, result)
}

// Delete removes a backup record and its stored document.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	err := s.manager.Delete(c.Context(), id)
	if errors.Is(err, backupsvc.ErrBackupNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Backup not found")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to delete backup")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "backup.delete", id, "Deleted backup")

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func allTables() backupsvc.Options {
	return backupsvc.Options{
		Roles:          true,
		Categories:     true,
		Tags:           true,
		Settings:       true,
		Redirects:      true,
		EmailTemplates: true,
		Plans:          true,
	}
}

func (s *Service) logActivity(c *fiber.Ctx, action, entityID, description string) {
	if err := activity.Log(s.db, auth.CurrentUserID(c), action, "backup", entityID, description); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}
}
