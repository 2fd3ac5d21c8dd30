// Package daemon assembles the application: database, storage, sessions and
// the web service.
package daemon

import (
	"fmt"

	fiberstorage "github.com/gofiber/storage"
	sessionmemory "github.com/gofiber/storage/memory/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/dsn"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
	"github.com/GoPress-Admin/GoPress-Admin/internal/logger"
	"github.com/GoPress-Admin/GoPress-Admin/internal/storage"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to init logger")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Setting{},
		&models.Redirect{},
		&models.EmailTemplate{},
		&models.Plan{},
		&models.Subscription{},
		&models.Post{},
		&models.MediaFile{},
		&models.Backup{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	seed(cfg, db)

	session.Init(newSessionStorage(cfg))

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init storage backend")
		return nil
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, store),
	}
}

// openDialector picks the gorm driver for the configured engine.
func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		return gormsqlite.Open(dsn.Create(cfg))
	default:
		return gormmysql.Open(dsn.Create(cfg))
	}
}

// newSessionStorage picks the fiber session storage for the configured
// engine. SQLite deployments are single-node, so sessions stay in memory.
func newSessionStorage(cfg *config.Config) fiberstorage.Storage {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	case config.EngineSQLite:
		return sessionmemory.New()
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}
}
