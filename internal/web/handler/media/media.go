// Package media provides the media upload and management endpoints.
// Payloads go to the storage backend; the database keeps only metadata.
package media

import (
	"errors"
	"io"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	mediactl "github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/media"
	"github.com/GoPress-Admin/GoPress-Admin/internal/storage"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the base path of the media endpoints.
	Path = handler.APIPrefix + "/media"

	// MaxUploadSize caps a single upload at 32 MiB.
	MaxUploadSize = 32 << 20

	defaultPageSize = 25
	maxPageSize     = 100
)

// Service is the media handler service.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	store storage.Backend
}

// Handler is the media handler.
var Handler = Service{}

// Init initializes the media handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB,
	authService *auth.Service, store storage.Backend) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.store = store

	app.Get(Path, auth.RequirePermission(authService, auth.PermMediaView), s.List)
	app.Get(Path+"/:id", auth.RequirePermission(authService, auth.PermMediaView), s.Get)
	app.Get(Path+"/:id/content", auth.RequirePermission(authService, auth.PermMediaView), s.Content)
	app.Post(Path, auth.RequirePermission(authService, auth.PermMediaUpload), s.Upload)
	app.Delete(Path+"/:id", auth.RequirePermission(authService, auth.PermMediaDelete), s.Delete)
}

// List returns a page of media records, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	limit, offset := handler.PageParams(c, defaultPageSize, maxPageSize)

	files, total, err := mediactl.List(s.db, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list media files")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.RespondList(c, files, handler.ListMeta{Total: total, Limit: limit, Offset: offset})
}

// Get returns one media record.
func (s *Service) Get(c *fiber.Ctx) error {
	stored, err := mediactl.Get(s.db, c.Params("id"))
	if errors.Is(err, mediactl.ErrMediaNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Media file not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, stored)
}

// Content streams the binary payload of a media file.
func (s *Service) Content(c *fiber.Ctx) error {
	stored, err := mediactl.Get(s.db, c.Params("id"))
	if errors.Is(err, mediactl.ErrMediaNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Media file not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	payload, err := s.store.Get(c.Context(), stored.Path)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Media payload is missing from storage")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to read media payload")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if stored.MimeType != "" {
		c.Set(fiber.HeaderContentType, stored.MimeType)
	}

	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+stored.FileName+`"`)

	return c.Status(fiber.StatusOK).Send(payload)
}

// Upload stores one multipart file and records its metadata.
func (s *Service) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Upload file is missing")
	}

	if file.Size > MaxUploadSize {
		return handler.RespondError(c, fiber.StatusRequestEntityTooLarge, "Upload exceeds the size limit")
	}

	opened, err := file.Open()
	if err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Upload file cannot be read")
	}
	defer opened.Close()

	payload, err := io.ReadAll(opened)
	if err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Upload file cannot be read")
	}

	fileName := path.Base(file.Filename)
	mimeType := file.Header.Get(fiber.HeaderContentType)

	// The storage key is unique per upload so identical file names never
	// overwrite each other.
	key := "media/" + uuid.New().String() + strings.ToLower(path.Ext(fileName))

	if err := s.store.Put(c.Context(), key, payload, mimeType); err != nil {
		log.Error().Err(err).Msg("failed to store media payload")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	created, err := mediactl.Create(s.db, fileName, key, mimeType, int64(len(payload)),
		auth.CurrentUserID(c))
	if err != nil {
		// Keep storage consistent when the metadata row cannot be written.
		if cleanupErr := s.store.Delete(c.Context(), key); cleanupErr != nil {
			log.Error().Err(cleanupErr).Str("key", key).Msg("failed to clean up stored payload")
		}

		log.Error().Err(err).Msg("failed to record media file")

		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "media.upload", created.ID, "Uploaded "+created.FileName)

	return handler.Respond(c, fiber.StatusCreated, created)
}

// Delete removes a media record and its stored payload.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	stored, err := mediactl.Get(s.db, id)
	if errors.Is(err, mediactl.ErrMediaNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Media file not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if err := s.store.Delete(c.Context(), stored.Path); err != nil {
		log.Error().Err(err).Str("key", stored.Path).Msg("failed to delete media payload")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if err := mediactl.Delete(s.db, id); err != nil {
		log.Error().Err(err).Msg("failed to delete media file")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "media.delete", id, "Deleted "+stored.FileName)

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (s *Service) logActivity(c *fiber.Ctx, action, entityID, description string) {
	if err := activity.Log(s.db, auth.CurrentUserID(c), action, "media", entityID, description); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}
}
