// Package handler holds the shared pieces of the web handlers: the service
// interface each handler implements, the JSON response envelope and common
// route constants.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error
}
