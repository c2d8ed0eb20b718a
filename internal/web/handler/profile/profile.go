// Package profile serves the authenticated member's own account.
package profile

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/config"
	"github.com/scholarden/scholarden-admin/internal/db/controller/account"
	"github.com/scholarden/scholarden-admin/internal/db/models"
	"github.com/scholarden/scholarden-admin/internal/web/handler"
	"github.com/scholarden/scholarden-admin/internal/web/middleware/claims"
)

const (
	// Path is the path to the member profile.
	Path = "/profile"

	// DocumentsPath is the path for submitting credential documents.
	DocumentsPath = Path + "/documents"
)

// Service is the profile handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the profile handler.
var Handler = Service{}

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, claims.Required(), s.Get)
	app.Post(Path, claims.Required(), s.Post)
	app.Post(DocumentsPath, claims.Required(), s.PostDocument)
}

type documentView struct {
	Name      string    `json:"name"`
	BlobRef   string    `json:"blobRef"`
	CreatedAt time.Time `json:"createdAt"`
}

type profileView struct {
	ID            uint64           `json:"id"`
	Email         string           `json:"email"`
	Name          string           `json:"name"`
	Role          models.Role      `json:"role"`
	KYCStatus     models.KYCStatus `json:"kycStatus"`
	Phone         string           `json:"phone,omitempty"`
	Institution   string           `json:"institution,omitempty"`
	Bio           string           `json:"bio,omitempty"`
	WalletAddress string           `json:"walletAddress,omitempty"`
	Documents     []documentView   `json:"documents"`
}

// Get returns the caller's own account.
func (s *Service) Get(c *fiber.Ctx) error {
	acc, errResp := s.loadOwnAccount(c)
	if acc == nil {
		return errResp
	}

	return c.JSON(newProfileView(acc))
}

type profileUpdateRequest struct {
	Role          *models.Role `json:"role"`
	Phone         *string      `json:"phone"`
	Institution   *string      `json:"institution"`
	Bio           *string      `json:"bio"`
	WalletAddress *string      `json:"walletAddress"`
}

// Post applies a partial update to the caller's own account. This is the only
// way a role changes after account creation.
func (s *Service) Post(c *fiber.Ctx) error {
	current := claims.FromCtx(c)

	id, err := current.SubjectID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid session",
		})
	}

	var req profileUpdateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	acc, err := account.UpdateProfile(s.db, id, account.ProfilePatch{
		Role:          req.Role,
		Phone:         req.Phone,
		Institution:   req.Institution,
		Bio:           req.Bio,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidRole):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid role",
			})
		case errors.Is(err, account.ErrAccountNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "account not found",
			})
		}

		log.Error().Err(err).Uint64("account_id", id).Msg("failed to update profile")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(newProfileView(acc))
}

type documentRequest struct {
	Name string `json:"name"`
}

// PostDocument registers a submitted credential file on the caller's account.
// The blob reference is allocated server side; file content lives in object
// storage addressed by that reference.
func (s *Service) PostDocument(c *fiber.Ctx) error {
	current := claims.FromCtx(c)

	id, err := current.SubjectID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid session",
		})
	}

	var req documentRequest

	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "document name is required",
		})
	}

	doc, err := account.AddDocument(s.db, id, req.Name, uuid.NewString())
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "account not found",
			})
		}

		log.Error().Err(err).Uint64("account_id", id).Msg("failed to add document")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(documentView{
		Name:      doc.Name,
		BlobRef:   doc.BlobRef,
		CreatedAt: doc.CreatedAt,
	})
}

func (s *Service) loadOwnAccount(c *fiber.Ctx) (*models.Account, error) {
	current := claims.FromCtx(c)

	id, err := current.SubjectID()
	if err != nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid session",
		})
	}

	acc, err := account.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "account not found",
			})
		}

		log.Error().Err(err).Uint64("account_id", id).Msg("failed to load account")

		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return acc, nil
}

func newProfileView(acc *models.Account) profileView {
	docs := make([]documentView, 0, len(acc.Documents))
	for _, d := range acc.Documents {
		docs = append(docs, documentView{
			Name:      d.Name,
			BlobRef:   d.BlobRef,
			CreatedAt: d.CreatedAt,
		})
	}

	return profileView{
		ID:            acc.ID,
		Email:         acc.Email,
		Name:          acc.Name,
		Role:          acc.Role,
		KYCStatus:     acc.KYCStatus,
		Phone:         acc.Phone,
		Institution:   acc.Institution,
		Bio:           acc.Bio,
		WalletAddress: acc.WalletAddress,
		Documents:     docs,
	}
}
