package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/db/models"
)

// LocalProvider handles local database authentication for seeded accounts.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates an account against the local database.
func (p *LocalProvider) Authenticate(email, password string) (*models.Account, error) {
	var acc models.Account

	err := p.db.Where("email = ? AND auth_source = ?", email, models.AuthSourceLocal).
		First(&acc).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	if !acc.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return &acc, nil
}

// CreateAccount creates a new local account with a hashed password.
func (p *LocalProvider) CreateAccount(email, name, password string) (*models.Account, error) {
	var existing models.Account

	err := p.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("account %s: already exists", email)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	acc := models.Account{
		Email:        email,
		Name:         name,
		Role:         models.RoleStudent,
		KYCStatus:    models.KYCPending,
		AuthSource:   models.AuthSourceLocal,
		PasswordHash: models.HashPassword(password),
	}

	if err := p.db.Create(&acc).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &acc, nil
}
