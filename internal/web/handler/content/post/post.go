// Package post provides the post management endpoints.
// Authors holding only the own-content permission can edit and delete just
// their own posts; the all-content permission lifts that restriction.
package post

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	postctl "github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/post"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
)

const (
	// Path is the base path of the post endpoints.
	Path = handler.APIPrefix + "/posts"

	defaultPageSize = 25
	maxPageSize     = 100
)

// Request is the body for creating or updating a post.
type Request struct {
	Title      string  `json:"title" validate:"required,min=1,max=255"`
	Slug       string  `json:"slug" validate:"required,min=1,max=255"`
	Content    string  `json:"content"`
	CategoryID *string `json:"categoryId"`
}

// Service is the post handler service.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the post handler.
var Handler = Service{}

// Init initializes the post handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService

	app.Get(Path, auth.RequirePermission(authService, auth.PermPostsView), s.List)
	app.Get(Path+"/:id", auth.RequirePermission(authService, auth.PermPostsView), s.Get)
	app.Post(Path, auth.RequirePermission(authService, auth.PermPostsCreate), s.Post)
	app.Put(Path+"/:id",
		auth.RequireAnyPermission(authService, auth.PermPostsEditOwn, auth.PermPostsEditAll), s.Put)
	app.Post(Path+"/:id/publish", auth.RequirePermission(authService, auth.PermPostsPublish), s.Publish)
	app.Post(Path+"/:id/unpublish", auth.RequirePermission(authService, auth.PermPostsPublish), s.Unpublish)
	app.Delete(Path+"/:id", auth.RequirePermission(authService, auth.PermPostsDelete), s.Delete)
}

// canTouch reports whether the current user may modify the post. Users with
// the all-content permission always may; otherwise the post must be theirs.
func (s *Service) canTouch(c *fiber.Ctx, stored *models.Post) bool {
	if auth.HasPermissionInContext(c, s.authService, auth.PermPostsEditAll) {
		return true
	}

	userID := auth.CurrentUserID(c)

	return stored.AuthorID != nil && userID != "" && *stored.AuthorID == userID
}

// List returns a page of posts, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	limit, offset := handler.PageParams(c, defaultPageSize, maxPageSize)

	filter := postctl.Filter{
		Status:     models.PostStatus(c.Query("status")),
		AuthorID:   c.Query("authorId"),
		CategoryID: c.Query("categoryId"),
		Limit:      limit,
		Offset:     offset,
	}

	posts, total, err := postctl.List(s.db, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list posts")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.RespondList(c, posts, handler.ListMeta{Total: total, Limit: limit, Offset: offset})
}

// Get returns one post.
func (s *Service) Get(c *fiber.Ctx) error {
	stored, err := postctl.Get(s.db, c.Params("id"))
	if errors.Is(err, postctl.ErrPostNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Post not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, stored)
}

// Post creates a draft authored by the current user.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := postctl.Create(s.db, req.Title, req.Slug, req.Content,
		auth.CurrentUserID(c), req.CategoryID)

	switch {
	case errors.Is(err, postctl.ErrPostAlreadyExists):
		return handler.RespondError(c, fiber.StatusConflict, "A post with that slug already exists")
	case errors.Is(err, postctl.ErrPostCategoryNotFound):
		return handler.RespondError(c, fiber.StatusBadRequest, "Category not found")
	case err != nil:
		log.Error().Err(err).Msg("failed to create post")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "post.create", created.ID, "Created post "+created.Title)

	return handler.Respond(c, fiber.StatusCreated, created)
}

// Put updates a post's content fields.
func (s *Service) Put(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := handler.Validate.Struct(&req); err != nil {
		return handler.RespondError(c, fiber.StatusBadRequest, err.Error())
	}

	id := c.Params("id")

	stored, err := postctl.Get(s.db, id)
	if errors.Is(err, postctl.ErrPostNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Post not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if !s.canTouch(c, stored) {
		return handler.RespondError(c, fiber.StatusForbidden, "You can only edit your own posts")
	}

	updated, err := postctl.Update(s.db, id, req.Title, req.Slug, req.Content, req.CategoryID)

	switch {
	case errors.Is(err, postctl.ErrPostAlreadyExists):
		return handler.RespondError(c, fiber.StatusConflict, "A post with that slug already exists")
	case errors.Is(err, postctl.ErrPostCategoryNotFound):
		return handler.RespondError(c, fiber.StatusBadRequest, "Category not found")
	case err != nil:
		log.Error().Err(err).Msg("failed to update post")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "post.update", updated.ID, "Updated post "+updated.Title)

	return handler.Respond(c, fiber.StatusOK, updated)
}

// Publish makes a post public.
func (s *Service) Publish(c *fiber.Ctx) error {
	published, err := postctl.Publish(s.db, c.Params("id"))
	if errors.Is(err, postctl.ErrPostNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Post not found")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to publish post")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "post.publish", published.ID, "Published post "+published.Title)

	return handler.Respond(c, fiber.StatusOK, published)
}

// Unpublish returns a post to draft state.
func (s *Service) Unpublish(c *fiber.Ctx) error {
	drafted, err := postctl.Unpublish(s.db, c.Params("id"))
	if errors.Is(err, postctl.ErrPostNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Post not found")
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to unpublish post")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "post.unpublish", drafted.ID, "Unpublished post "+drafted.Title)

	return handler.Respond(c, fiber.StatusOK, drafted)
}

// Delete removes a post.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	stored, err := postctl.Get(s.db, id)
	if errors.Is(err, postctl.ErrPostNotFound) {
		return handler.RespondError(c, fiber.StatusNotFound, "Post not found")
	}

	if err != nil {
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if !s.canTouch(c, stored) {
		return handler.RespondError(c, fiber.StatusForbidden, "You can only delete your own posts")
	}

	if err := postctl.Delete(s.db, id); err != nil {
		log.Error().Err(err).Msg("failed to delete post")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	s.logActivity(c, "post.delete", id, "Deleted post "+stored.Title)

	return handler.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (s *Service) logActivity(c *fiber.Ctx, action, entityID, description string) {
	if err := activity.Log(s.db, auth.CurrentUserID(c), action, "post", entityID, description); err != nil {
		log.Error().Err(err).Msg("failed to write activity log")
	}
}
