// Package web wires the fiber application: middleware, handlers and the
// service lifecycle.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	fiberlogger "github.com/GoPress-Admin/GoPress-Admin/internal/logger/adapter/fiber"
	"github.com/GoPress-Admin/GoPress-Admin/internal/storage"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/admin/activitylog"
	backuphandler "github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/admin/backup"
	rolehandler "github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/admin/role"
	userhandler "github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/admin/user"
	planhandler "github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/billing/plan"
	categoryhandler "github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/content/category"
	posthandler "github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/content/post"
	taghandler "github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/content/tag"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/dashboard"
	templatehandler "github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/email/template"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/login"
	"github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/logout"
	mediahandler "github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/media"
	redirecthandler "github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/seo/redirect"
	settingshandler "github.com/GoPress-Admin/GoPress-Admin/internal/web/handler/settings"
)

// Service represents the web service.
type Service struct {
	App         *fiber.App
	cfg         *config.Config
	alive       atomic.Bool
	db          *gorm.DB
	authService *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: fail checkalive first so the LB
	// removes this instance from its active targets.
	if s.cfg.Webserver.ShutDownTime > 0 {
		log.Info().Msgf(
			"graceful shutdown: return 503 for %d seconds to let the LB drain this instance",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, store storage.Backend) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "GoPress-Admin",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// access logging
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: "/checkalive",
	}))

	// session auth for everything except the public endpoints
	app.Use(AuthMiddleware)

	authService := auth.NewService(db)

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}

	app.Get("/checkalive", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with permission checks)
	if err := login.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	if err := logout.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init logout handler")
	}

	dashboard.Handler.Init(app, cfg, db, authService)
	userhandler.Handler.Init(app, cfg, db, authService)
	rolehandler.Handler.Init(app, cfg, db, authService)
	activitylog.Handler.Init(app, cfg, db, authService)
	backuphandler.Handler.Init(app, cfg, db, authService, store)
	categoryhandler.Handler.Init(app, cfg, db, authService)
	taghandler.Handler.Init(app, cfg, db, authService)
	posthandler.Handler.Init(app, cfg, db, authService)
	redirecthandler.Handler.Init(app, cfg, db, authService)
	templatehandler.Handler.Init(app, cfg, db, authService)
	planhandler.Handler.Init(app, cfg, db, authService)
	mediahandler.Handler.Init(app, cfg, db, authService, store)
	settingshandler.Handler.Init(app, cfg, db, authService)

	// redirect root to the dashboard endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service
}
