// Package onboard captures pre-authentication onboarding declarations.
//
// A visitor posts their intended role and optional identity details before
// they ever sign in. The declaration lands in the intent store under an
// opaque token; the token travels in a short-lived cookie so the sign-in
// callback can pick the declaration up again.
package onboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/scholarden/scholarden-admin/internal/config"
	"github.com/scholarden/scholarden-admin/internal/db/models"
	"github.com/scholarden/scholarden-admin/internal/intent"
	"github.com/scholarden/scholarden-admin/internal/web/handler"
	oidchandler "github.com/scholarden/scholarden-admin/internal/web/handler/auth/oidc"
)

const (
	// Path is the path for capturing an onboarding intent.
	Path = handler.RootPath + "onboard/intent"
)

// Service is the onboarding intent handler service.
type Service struct {
	cfg     *config.Config
	intents *intent.Store
}

// Handler is the onboarding intent handler.
var Handler = Service{}

// Init initializes the onboarding intent handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, intents *intent.Store) {
	if app == nil || cfg == nil || intents == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.intents = intents

	app.Post(Path, s.Post)
}

type intentRequest struct {
	Role    models.Role `json:"role"`
	Phone   string      `json:"phone"`
	IDType  string      `json:"idType"`
	IDValue string      `json:"idValue"`
}

// Post stores the declared intent and hands back the sign-in URL. The
// correlation token is only ever exposed through the cookie.
func (s *Service) Post(c *fiber.Ctx) error {
	var req intentRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	token, err := s.intents.Capture(intent.Intent{
		Role:    req.Role,
		Phone:   req.Phone,
		IDType:  req.IDType,
		IDValue: req.IDValue,
	})
	if err != nil {
		if errors.Is(err, intent.ErrInvalidIntent) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid intent declaration",
			})
		}

		log.Error().Err(err).Msg("failed to capture onboarding intent")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	handler.SetIntentCookie(c, s.cfg, intent.CookieName, token, s.intents.TTL())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"loginUrl": oidchandler.LoginPath,
	})
}
