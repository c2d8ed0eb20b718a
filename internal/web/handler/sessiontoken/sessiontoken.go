// Package sessiontoken refreshes the signed session token.
//
// A refresh keeps the subject and re-reads everything else: the role comes
// from the account record and the admin flag is derived from the founder
// allow-list again. Role or allow-list changes therefore take effect on the
// next refresh without touching stored data.
package sessiontoken

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/auth"
	"github.com/scholarden/scholarden-admin/internal/config"
	"github.com/scholarden/scholarden-admin/internal/db/controller/account"
	"github.com/scholarden/scholarden-admin/internal/web/handler"
	"github.com/scholarden/scholarden-admin/internal/web/middleware/claims"
)

const (
	// Path is the path for refreshing the session token.
	Path = "/session/refresh"
)

// Service is the session refresh handler service.
type Service struct {
	cfg    *config.Config
	db     *gorm.DB
	tokens *auth.TokenService
}

// Handler is the session refresh handler.
var Handler = Service{}

// Init initializes the session refresh handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, tokens *auth.TokenService) {
	if app == nil || cfg == nil || db == nil || tokens == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.tokens = tokens

	app.Post(Path, claims.Required(), s.Post)
}

// Post re-issues the caller's session token from current account state.
func (s *Service) Post(c *fiber.Ctx) error {
	current := claims.FromCtx(c)

	id, err := current.SubjectID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid session",
		})
	}

	acc, err := account.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			// account deleted since issuance: session is void
			handler.ClearSessionCookie(c)

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "account no longer exists",
			})
		}

		log.Error().Err(err).Uint64("account_id", id).Msg("failed to load account for refresh")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	sessionToken, err := s.tokens.Refresh(current, acc)
	if err != nil {
		log.Error().Err(err).Uint64("account_id", id).Msg("failed to refresh session token")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	handler.SetSessionCookie(c, s.cfg, sessionToken)

	return c.JSON(fiber.Map{
		"role":    acc.Role,
		"isAdmin": s.tokens.IsAdminEmail(acc.Email),
	})
}
