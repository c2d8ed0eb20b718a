// Package review exposes the administrator credential review queue.
package review

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/config"
	"github.com/scholarden/scholarden-admin/internal/db/controller/account"
	"github.com/scholarden/scholarden-admin/internal/db/models"
	"github.com/scholarden/scholarden-admin/internal/kyc"
	"github.com/scholarden/scholarden-admin/internal/web/handler"
	"github.com/scholarden/scholarden-admin/internal/web/middleware/claims"
)

const (
	// Path is the path to the review queue.
	Path = "/admin/review"
)

// Service is the review queue handler service.
type Service struct {
	cfg *config.Config
	kyc *kyc.Service
}

// Handler is the review queue handler.
var Handler = Service{}

// Init initializes the review queue handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.kyc = kyc.NewService(db)

	// the queue service enforces the admin flag itself; the middleware only
	// guarantees a verified session
	app.Get(Path, claims.Required(), s.List)
	app.Post(Path+"/:id", claims.Required(), s.Decide)
}

// List returns the accounts awaiting or past review, optionally filtered.
func (s *Service) List(c *fiber.Ctx) error {
	summaries, err := s.kyc.List(claims.FromCtx(c), c.Query("search"))
	if err != nil {
		if errors.Is(err, kyc.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "administrator access required",
			})
		}

		log.Error().Err(err).Msg("failed to list review queue")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"accounts": summaries,
	})
}

type decisionRequest struct {
	Outcome models.KYCStatus `json:"outcome"`
}

// Decide applies a review outcome to a pending account.
func (s *Service) Decide(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid account id",
		})
	}

	var req decisionRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	summary, err := s.kyc.Decide(claims.FromCtx(c), id, req.Outcome)
	if err != nil {
		switch {
		case errors.Is(err, kyc.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "administrator access required",
			})
		case errors.Is(err, account.ErrAccountNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "account not found",
			})
		case errors.Is(err, kyc.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "account is not pending review",
			})
		case errors.Is(err, kyc.ErrInvalidOutcome):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "outcome must be approved or rejected",
			})
		}

		log.Error().Err(err).Uint64("account_id", id).Msg("failed to apply review decision")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(summary)
}
