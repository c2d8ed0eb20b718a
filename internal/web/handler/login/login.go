// Package login implements the local database login for seeded accounts.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/auth"
	"github.com/scholarden/scholarden-admin/internal/config"
	"github.com/scholarden/scholarden-admin/internal/web/handler"
)

const (
	// Path is the path for the local login.
	Path = "/login"
)

// Service is the login handler service.
type Service struct {
	cfg    *config.Config
	db     *gorm.DB
	local  *auth.LocalProvider
	tokens *auth.TokenService
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, tokens *auth.TokenService) {
	if app == nil || cfg == nil || db == nil || tokens == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.tokens = tokens
	s.local = auth.NewLocalProvider(db)

	if !cfg.Auth.LocalDB.Enabled {
		log.Info().Msg("local database authentication is disabled by configuration")
		return
	}

	app.Post(Path, s.Post)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Post handles the login submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var req loginRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	acc, err := s.local.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) || errors.Is(err, auth.ErrInvalidPassword) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid email or password",
			})
		}

		log.Error().Err(err).Msg("local authentication failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	sessionToken, err := s.tokens.Issue(acc)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue session token")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	handler.SetSessionCookie(c, s.cfg, sessionToken)

	log.Info().Str("email", acc.Email).Msg("member logged in via local database")

	return c.JSON(fiber.Map{
		"role":    acc.Role,
		"isAdmin": s.tokens.IsAdminEmail(acc.Email),
	})
}
