package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// AuthSource represents the authentication source for an account.
type AuthSource string

const (
	// AuthSourceLocal indicates the account authenticates with a local password.
	// Only the seeded founder account uses this.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceOIDC indicates the account authenticates via the external identity provider.
	AuthSourceOIDC AuthSource = "oidc"
)

// Role is the declared community role of an account.
type Role string

const (
	// RoleStudent is the default role for new accounts.
	RoleStudent Role = "student"
	// RoleResearcher marks accounts doing academic research.
	RoleResearcher Role = "researcher"
	// RoleProfessional marks accounts in industry.
	RoleProfessional Role = "professional"
	// RoleEntrepreneur marks accounts building ventures.
	RoleEntrepreneur Role = "entrepreneur"
	// RoleOther covers everything else.
	RoleOther Role = "other"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleResearcher, RoleProfessional, RoleEntrepreneur, RoleOther:
		return true
	default:
		return false
	}
}

// KYCStatus is the credential review state of an account.
type KYCStatus string

const (
	// KYCPending is the initial review state of every account.
	KYCPending KYCStatus = "pending"
	// KYCApproved is set by an administrator decision.
	KYCApproved KYCStatus = "approved"
	// KYCRejected is set by an administrator decision.
	KYCRejected KYCStatus = "rejected"
)

// Account represents a member account.
//
// Accounts are created on the first successful external sign-in for an email
// address and reviewed through the administrator queue afterwards. There is
// no administrator column: the admin flag is recomputed from the configured
// founder email allow-list every time a session token is issued.
type Account struct {
	// ID is the unique identifier for the account.
	ID uint64 `gorm:"primaryKey"`
	// Email is supplied by the identity provider and never changes.
	Email string `gorm:"unique;size:255;not null"`
	// Name is the display name supplied by the identity provider.
	Name string `gorm:"size:255"`
	// Role is the declared community role. It is set at most once
	// automatically (from the pending intent at creation) and changes
	// afterwards only through an explicit profile update.
	Role Role `gorm:"type:varchar(20);not null;default:'student'"`
	// Phone is an optional contact number declared during onboarding.
	Phone string `gorm:"size:50"`
	// IDType is the declared identity document type (passport, national id, ...).
	IDType string `gorm:"size:50"`
	// IDValue is the declared identity document number.
	IDValue string `gorm:"size:100"`
	// KYCStatus starts at pending and only moves through administrator decisions.
	KYCStatus KYCStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	// WalletAddress is an optional payout address.
	WalletAddress string `gorm:"size:128"`
	// Institution is an optional affiliation.
	Institution string `gorm:"size:255"`
	// Bio is an optional free-form text.
	Bio string `gorm:"size:2000"`
	// Documents are the credential files submitted for review.
	Documents []Document `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	// AuthSource indicates how this account authenticates (oidc or local).
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'oidc'"`
	// ExternalID is the identity provider subject (sub claim) for OIDC accounts.
	ExternalID string `gorm:"size:255"`
	// PasswordHash is the Argon2id hash for local accounts, empty otherwise.
	PasswordHash string `gorm:"size:255"`
	// CreatedAt is the timestamp when the account was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the account was last updated (managed by GORM).
	UpdatedAt time.Time
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// Only used for the seeded local founder account.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the account's stored hash.
// Returns false for accounts without a local password.
func (a *Account) VerifyPassword(password string) bool {
	if a.PasswordHash == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, a.PasswordHash)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
