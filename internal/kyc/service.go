// Package kyc implements the administrator-facing credential review queue.
//
// Every entry point verifies the caller's session token admin flag first;
// a missing or false flag is a hard authorization failure, never a silent
// filter. Decisions move an account's review status from pending to exactly
// one terminal outcome with a conditional single-row write, so concurrent
// administrator sessions can not double-apply a decision.
package kyc

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/auth"
	"github.com/scholarden/scholarden-admin/internal/db/controller/account"
	"github.com/scholarden/scholarden-admin/internal/db/models"
)

const (
	// SourceManual marks accounts that declared an identity document or
	// submitted at least one credential file.
	SourceManual = "manual"
	// SourceQuick marks accounts that went through quick sign-in only.
	SourceQuick = "quick"
)

var (
	// ErrForbidden is returned when the caller lacks the administrator flag.
	ErrForbidden = errors.New("administrator access required")
	// ErrInvalidTransition is returned when deciding an account that is not pending.
	ErrInvalidTransition = errors.New("account is not pending review")
	// ErrInvalidOutcome is returned for outcomes other than approved or rejected.
	ErrInvalidOutcome = errors.New("invalid review outcome")
)

// DocumentSummary is a submitted credential file in a review listing.
type DocumentSummary struct {
	Name    string `json:"name"`
	BlobRef string `json:"blobRef"`
}

// Summary is the account view handed to the administrator UI.
type Summary struct {
	ID            uint64            `json:"id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Role          models.Role       `json:"role"`
	KYCStatus     models.KYCStatus  `json:"kycStatus"`
	WalletAddress string            `json:"walletAddress,omitempty"`
	SubmittedAt   time.Time         `json:"submittedAt"`
	Documents     []DocumentSummary `json:"documents"`
	Bio           string            `json:"bio,omitempty"`
	Institution   string            `json:"institution,omitempty"`
	Source        string            `json:"source"`
}

// Service is the moderation queue over the account collection.
type Service struct {
	db *gorm.DB
}

// NewService creates a moderation queue service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns account summaries for review, excluding the caller's own
// account, newest first. The optional search filters on name, email and
// institution.
func (s *Service) List(claims *auth.Claims, search string) ([]Summary, error) {
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}

	selfID, err := claims.SubjectID()
	if err != nil {
		return nil, err
	}

	tx := s.db.Model(&models.Account{}).
		Preload("Documents").
		Where("id <> ?", selfID).
		Order("created_at DESC")

	if search != "" {
		like := "%" + search + "%"
		tx = tx.Where("name LIKE ? OR email LIKE ? OR institution LIKE ?", like, like, like)
	}

	var accounts []models.Account
	if err := tx.Find(&accounts).Error; err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(accounts))
	for i := range accounts {
		summaries = append(summaries, newSummary(&accounts[i]))
	}

	return summaries, nil
}

// Decide sets the review outcome on a pending account. Outcomes are terminal:
// deciding an account that is not pending fails with ErrInvalidTransition so
// double submissions surface instead of being masked.
func (s *Service) Decide(claims *auth.Claims, accountID uint64, outcome models.KYCStatus) (*Summary, error) {
	if err := requireAdmin(claims); err != nil {
		return nil, err
	}

	if outcome != models.KYCApproved && outcome != models.KYCRejected {
		return nil, ErrInvalidOutcome
	}

	// NotFound has to be distinguishable from InvalidTransition
	if _, err := account.GetByID(s.db, accountID); err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Account{}).
		Where("id = ? AND kyc_status = ?", accountID, models.KYCPending).
		Update("kyc_status", outcome)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	adminID, _ := claims.SubjectID()
	log.Info().
		Uint64("account_id", accountID).
		Uint64("admin_id", adminID).
		Str("outcome", string(outcome)).
		Msg("review decision applied")

	updated, err := account.GetByID(s.db, accountID)
	if err != nil {
		return nil, err
	}

	summary := newSummary(updated)

	return &summary, nil
}

func requireAdmin(claims *auth.Claims) error {
	if claims == nil || !claims.IsAdmin {
		return ErrForbidden
	}

	return nil
}

// newSummary maps an account to its review view, deriving the provenance
// classification. Provenance is informational only and never gates anything.
func newSummary(acc *models.Account) Summary {
	docs := make([]DocumentSummary, 0, len(acc.Documents))
	for _, d := range acc.Documents {
		docs = append(docs, DocumentSummary{Name: d.Name, BlobRef: d.BlobRef})
	}

	source := SourceQuick
	if acc.IDValue != "" || len(docs) > 0 {
		source = SourceManual
	}

	return Summary{
		ID:            acc.ID,
		Name:          acc.Name,
		Email:         acc.Email,
		Role:          acc.Role,
		KYCStatus:     acc.KYCStatus,
		WalletAddress: acc.WalletAddress,
		SubmittedAt:   acc.CreatedAt,
		Documents:     docs,
		Bio:           acc.Bio,
		Institution:   acc.Institution,
		Source:        source,
	}
}
