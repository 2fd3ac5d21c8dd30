package daemon

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/setting"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

// seed fills an empty database with the preset roles, a default admin
// account, base settings and the welcome email template. Non-empty tables
// are left alone.
func seed(cfg *config.Config, db *gorm.DB) {
	seedRoles(db)
	seedAdminUser(db)
	seedSettings(cfg, db)
	seedEmailTemplates(db)
}

// roleDescriptions documents the seeded presets.
var roleDescriptions = map[string]string{
	auth.PresetAdmin:  "Full access to every part of the admin",
	auth.PresetEditor: "Manages all content, media, redirects and email templates",
	auth.PresetAuthor: "Writes and edits own posts",
	auth.PresetUser:   "Read-only access to posts",
}

func seedRoles(db *gorm.DB) {
	var count int64

	db.Model(&models.Role{}).Count(&count)
	if count > 0 {
		return
	}

	for name, permissions := range auth.PresetTemplates() {
		role := models.Role{
			Name:        name,
			Description: roleDescriptions[name],
			IsSystem:    name == auth.PresetAdmin,
			IsDefault:   name == auth.PresetUser,
		}

		if err := role.SetPermissions(permissions); err != nil {
			log.Error().Err(err).Str("role", name).Msg("failed to encode preset permissions")
			continue
		}

		if err := db.Create(&role).Error; err != nil {
			log.Error().Err(err).Str("role", name).Msg("failed to seed role")
		}
	}

	log.Info().Msg("seeded preset roles")
}

func seedAdminUser(db *gorm.DB) {
	var count int64

	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	var adminRole models.Role
	if err := db.Where("name = ?", auth.PresetAdmin).First(&adminRole).Error; err != nil {
		log.Error().Err(err).Msg("failed to load admin role for seeding")
		return
	}

	admin := models.User{
		Username: "admin",
		Email:    "admin@localhost",
		Password: models.HashPassword("changeme"),
		Active:   true,
		RoleID:   &adminRole.ID,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed admin user")
		return
	}

	log.Warn().Msg("seeded default admin user with password 'changeme', change it after first login")
}

func seedSettings(cfg *config.Config, db *gorm.DB) {
	var count int64

	db.Model(&models.Setting{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []struct {
		key   string
		value string
		group string
	}{
		{"site.title", cfg.Title, "general"},
		{"site.description", "", "general"},
		{"posts.per_page", "10", "content"},
		{"media.max_upload_mb", "32", "content"},
	}

	for _, entry := range defaults {
		if _, err := setting.Create(db, entry.key, entry.value, entry.group); err != nil {
			log.Error().Err(err).Str("key", entry.key).Msg("failed to seed setting")
		}
	}

	log.Info().Msg("seeded default settings")
}

func seedEmailTemplates(db *gorm.DB) {
	var count int64

	db.Model(&models.EmailTemplate{}).Count(&count)
	if count > 0 {
		return
	}

	welcome := models.EmailTemplate{
		Name:        "Welcome",
		Slug:        "welcome",
		Subject:     "Welcome to {{siteTitle}}",
		HTMLContent: "<p>Hello {{firstName}},</p><p>your account is ready.</p>",
		TextContent: "Hello {{firstName}},\n\nyour account is ready.\n",
		Description: "Sent to newly created accounts",
		IsActive:    true,
	}

	if raw, err := json.Marshal([]string{"siteTitle", "firstName"}); err == nil {
		welcome.Variables = raw
	}

	if err := db.Create(&welcome).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed welcome email template")
		return
	}

	log.Info().Msg("seeded welcome email template")
}
