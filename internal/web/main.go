// Package web wires the HTTP surface: middleware, handlers and lifecycle.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/auth"
	"github.com/scholarden/scholarden-admin/internal/config"
	"github.com/scholarden/scholarden-admin/internal/intent"
	fiberlogger "github.com/scholarden/scholarden-admin/internal/logger/adapter/fiber"
	"github.com/scholarden/scholarden-admin/internal/web/handler/admin/review"
	oidchandler "github.com/scholarden/scholarden-admin/internal/web/handler/auth/oidc"
	"github.com/scholarden/scholarden-admin/internal/web/handler/login"
	"github.com/scholarden/scholarden-admin/internal/web/handler/logout"
	"github.com/scholarden/scholarden-admin/internal/web/handler/onboard"
	"github.com/scholarden/scholarden-admin/internal/web/handler/profile"
	"github.com/scholarden/scholarden-admin/internal/web/handler/sessiontoken"
	"github.com/scholarden/scholarden-admin/internal/web/middleware/claims"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	tokens       *auth.TokenService
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

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

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, intents *intent.Store) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if intents == nil {
		panic("intent store cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// access log middleware
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: "/checkalive",
	}))

	tokens := auth.NewTokenService(
		cfg.Webserver.Session.SigningKey,
		cfg.Webserver.URL,
		cfg.Webserver.Session.ExpiryTime,
		cfg.Auth.FounderEmails,
	)

	// session token claims middleware
	app.Use(claims.New(tokens))

	// init web service
	service := &Service{
		cfg:    cfg,
		App:    app,
		db:     db,
		tokens: tokens,
	}
	service.alive.Store(true)

	// init handlers (they register their own routes)
	onboard.Handler.Init(app, cfg, intents)
	oidchandler.Handler.Init(app, cfg, db, intents, tokens)
	login.Handler.Init(app, cfg, db, tokens)
	logout.Handler.Init(app, cfg)
	sessiontoken.Handler.Init(app, cfg, db, tokens)
	profile.Handler.Init(app, cfg, db)
	review.Handler.Init(app, cfg, db)

	// liveness endpoint for load balancers
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	return service
}
