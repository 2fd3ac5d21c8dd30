// Package dashboard serves the admin overview: content and account counts,
// recent activity and the permission-filtered navigation menu.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/activity"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/navigation"
)

const (
	// Path is the path of the dashboard endpoint.
	Path = handler.APIPrefix + "/dashboard"

	// NavigationPath is the path of the navigation menu endpoint.
	NavigationPath = handler.APIPrefix + "/navigation"

	recentActivityLimit = 10
)

// Stats is the aggregate block of the dashboard payload.
type Stats struct {
	Users          int64 `json:"users"`
	ActiveUsers    int64 `json:"activeUsers"`
	Posts          int64 `json:"posts"`
	PublishedPosts int64 `json:"publishedPosts"`
	DraftPosts     int64 `json:"draftPosts"`
	Categories     int64 `json:"categories"`
	Tags           int64 `json:"tags"`
	MediaFiles     int64 `json:"mediaFiles"`
	Redirects      int64 `json:"redirects"`
	Subscriptions  int64 `json:"subscriptions"`
}

// Service is the dashboard handler service.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService

	// The dashboard itself is visible to every authenticated user; the
	// stats it shows are not sensitive beyond what the menu already reveals.
	app.Get(Path, s.Get)
	app.Get(NavigationPath, s.GetNavigation)
}

// Get returns the dashboard aggregates and the most recent audit entries.
func (s *Service) Get(c *fiber.Ctx) error {
	var stats Stats

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Users, s.db.Model(&models.User{}).Where("deleted_at IS NULL")},
		{&stats.ActiveUsers, s.db.Model(&models.User{}).Where("deleted_at IS NULL AND active = ?", true)},
		{&stats.Posts, s.db.Model(&models.Post{})},
		{&stats.PublishedPosts, s.db.Model(&models.Post{}).Where("status = ?", models.PostStatusPublished)},
		{&stats.DraftPosts, s.db.Model(&models.Post{}).Where("status = ?", models.PostStatusDraft)},
		{&stats.Categories, s.db.Model(&models.Category{})},
		{&stats.Tags, s.db.Model(&models.Tag{})},
		{&stats.MediaFiles, s.db.Model(&models.MediaFile{})},
		{&stats.Redirects, s.db.Model(&models.Redirect{})},
		{&stats.Subscriptions, s.db.Model(&models.Subscription{}).
			Where("status IN ?", []models.SubscriptionStatus{
				models.SubscriptionStatusTrialing,
				models.SubscriptionStatusActive,
			})},
	}

	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			log.Error().Err(err).Msg("failed to collect dashboard stats")
			return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}
	}

	payload := fiber.Map{"stats": stats}

	// Recent activity only for users allowed to read the audit trail.
	if auth.HasPermissionInContext(c, s.authService, auth.PermSystemActivity) {
		entries, _, err := activity.List(s.db, activity.Filter{Limit: recentActivityLimit})
		if err != nil {
			log.Error().Err(err).Msg("failed to collect recent activity")
			return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}

		payload["recentActivity"] = entries
	}

	return handler.Respond(c, fiber.StatusOK, payload)
}

// GetNavigation returns the menu filtered down to the current user's
// permission set.
func (s *Service) GetNavigation(c *fiber.Ctx) error {
	userID := auth.CurrentUserID(c)
	if userID == "" {
		return handler.RespondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	permissions, err := s.authService.GetUserPermissions(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to resolve permissions")
		return handler.RespondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return handler.Respond(c, fiber.StatusOK, fiber.Map{
		"menu":        navigation.Filter(permissions),
		"permissions": permissions,
	})
}
