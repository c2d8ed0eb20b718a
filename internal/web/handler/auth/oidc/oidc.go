package oidc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/auth"
	"github.com/scholarden/scholarden-admin/internal/config"
	"github.com/scholarden/scholarden-admin/internal/intent"
	"github.com/scholarden/scholarden-admin/internal/web/handler"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.RootPath + "auth/oidc/login"

	// CallbackPath is the path for OIDC callback.
	CallbackPath = handler.RootPath + "auth/oidc/callback"

	// LogoutPath is the path for OIDC logout.
	LogoutPath = handler.RootPath + "auth/oidc/logout"

	// PostLoginPath is where members land after a successful sign-in.
	PostLoginPath = handler.RootPath + "profile"

	stateLifetime = 5 * time.Minute
)

// Service is the OIDC handler service.
type Service struct {
	cfg          *config.Config
	db           *gorm.DB
	oidcProvider *auth.OIDCProvider
	tokens       *auth.TokenService

	stateMu    sync.Mutex
	stateStore map[string]time.Time
}

// Handler is the OIDC handler.
var Handler = Service{
	stateStore: make(map[string]time.Time),
}

// Init initializes the OIDC handler. The merge engine is wired in as the
// account-created hook, so a declaration captured before sign-in lands on
// the account inside the same callback request.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, intents *intent.Store, tokens *auth.TokenService) {
	if app == nil || cfg == nil || db == nil || intents == nil || tokens == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.tokens = tokens

	if !cfg.Auth.OIDC.Enabled {
		return
	}

	oidcConfig := auth.OIDCConfig{
		Enabled:      cfg.Auth.OIDC.Enabled,
		ProviderURL:  cfg.Auth.OIDC.ProviderURL,
		ClientID:     cfg.Auth.OIDC.ClientID,
		ClientSecret: cfg.Auth.OIDC.ClientSecret,
		RedirectURL:  cfg.Auth.OIDC.RedirectURL,
		Scopes:       cfg.Auth.OIDC.Scopes,
	}

	ctx := context.Background()

	mergeEngine := auth.NewEngine(db, intents)

	oidcProvider, err := auth.NewOIDCProvider(ctx, &oidcConfig, db, mergeEngine.AccountCreated)
	if err != nil {
		if errors.Is(err, auth.ErrOIDCDisabled) {
			log.Info().Msg("OIDC authentication is disabled by configuration")
		} else {
			log.Warn().Err(err).Msg("Failed to initialize OIDC provider - OIDC authentication will be disabled")
		}

		return // Don't fail, just disable OIDC
	}

	s.oidcProvider = oidcProvider

	log.Info().Msg("OIDC authentication provider initialized")

	// Register routes
	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)
	app.Get(LogoutPath, s.Logout)

	// Start state cleanup goroutine
	go s.cleanupStates()
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	if s.oidcProvider == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("OIDC authentication is not available")
	}

	// Generate state token for CSRF protection
	state := auth.GenerateStateToken()

	s.stateMu.Lock()
	s.stateStore[state] = time.Now().Add(stateLifetime)
	s.stateMu.Unlock()

	// Redirect to OIDC provider
	return c.Redirect(s.oidcProvider.GetAuthURL(state))
}

// Callback handles the OIDC callback. Account creation, the intent merge and
// session token issuance all happen here, in that order.
func (s *Service) Callback(c *fiber.Ctx) error {
	if s.oidcProvider == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("OIDC authentication is not available")
	}

	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		log.Error().Msg("Missing code or state in OIDC callback")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid callback parameters")
	}

	if !s.takeState(state) {
		log.Error().Str("state", state).Msg("Invalid or expired state token")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state token")
	}

	ctx := context.Background()

	acc, err := s.oidcProvider.HandleCallback(ctx, code, c.Cookies(intent.CookieName))
	if err != nil {
		log.Error().Err(err).Msg("OIDC authentication failed")
		return c.Status(fiber.StatusUnauthorized).SendString("Authentication failed")
	}

	// the intent was consumed (or never existed); the cookie is done either way
	handler.ClearIntentCookie(c, intent.CookieName)

	sessionToken, err := s.tokens.Issue(acc)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue session token")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	handler.SetSessionCookie(c, s.cfg, sessionToken)

	log.Info().Str("email", acc.Email).Msg("Member logged in successfully via OIDC")

	return c.Redirect(PostLoginPath)
}

// Logout clears the session and redirects to the provider logout if supported.
func (s *Service) Logout(c *fiber.Ctx) error {
	handler.ClearSessionCookie(c)

	if s.oidcProvider != nil {
		postLogoutRedirectURI := s.cfg.Webserver.URL
		logoutURL := s.oidcProvider.GetLogoutURL("", postLogoutRedirectURI)

		if logoutURL != "" {
			return c.Redirect(logoutURL)
		}
	}

	return c.Redirect(handler.RootPath)
}

// takeState consumes a state token, reporting whether it was valid and fresh.
func (s *Service) takeState(state string) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	expiration, exists := s.stateStore[state]
	if !exists {
		return false
	}

	delete(s.stateStore, state)

	return time.Now().Before(expiration)
}

// cleanupStates periodically removes expired state tokens.
func (s *Service) cleanupStates() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		s.stateMu.Lock()
		for state, expiration := range s.stateStore {
			if now.After(expiration) {
				delete(s.stateStore, state)
			}
		}
		s.stateMu.Unlock()
	}
}
