package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/config"
	"github.com/scholarden/scholarden-admin/internal/db/models"
)

func seed(cfg *config.Config, db *gorm.DB) {
	// Seed a bootstrap founder account if the account table is empty, so the
	// review queue is reachable before the first OIDC sign-in. The admin flag
	// itself still comes from the allow-list at token issuance.

	if !cfg.Auth.LocalDB.Enabled || len(cfg.Auth.FounderEmails) == 0 {
		return
	}

	var count int64

	db.Model(&models.Account{}).Count(&count)
	if count != 0 {
		return
	}

	email := cfg.Auth.FounderEmails[0]

	err := db.Create(
		&models.Account{
			Email:        email,
			Name:         "Founder",
			Role:         models.RoleOther,
			KYCStatus:    models.KYCApproved,
			AuthSource:   models.AuthSourceLocal,
			PasswordHash: models.HashPassword("changeme"),
		},
	).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to seed founder account")
		return
	}

	log.Warn().Str("email", email).Msg("seeded bootstrap founder account with default password")
}
