// Package account provides persistence operations for member accounts.
package account

import (
	"errors"

	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/db/models"
)

const (
	emailQueryPattern = "email = ?"
)

var (
	// ErrAccountNotFound is returned when an account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailExists is returned when creating an account with an email that is already taken.
	ErrEmailExists = errors.New("account with this email already exists")
	// ErrEmailEmpty is returned when creating an account without an email.
	ErrEmailEmpty = errors.New("account email cannot be empty")
	// ErrInvalidRole is returned when a profile update carries an unknown role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves an account by its ID, including submitted documents.
func GetByID(db *gorm.DB, id uint64) (*models.Account, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var acc models.Account
	result := db.Preload("Documents").First(&acc, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, result.Error
	}

	return &acc, nil
}

// GetByEmail retrieves an account by its email address.
func GetByEmail(db *gorm.DB, email string) (*models.Account, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if email == "" {
		return nil, ErrEmailEmpty
	}

	var acc models.Account
	result := db.Where(emailQueryPattern, email).First(&acc)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, result.Error
	}

	return &acc, nil
}

// Create inserts a new account. Email uniqueness is checked up front so the
// caller gets ErrEmailExists instead of a driver specific constraint error.
func Create(db *gorm.DB, acc *models.Account) error {
	if db == nil {
		return ErrDBNil
	}
	if acc.Email == "" {
		return ErrEmailEmpty
	}

	var existing models.Account
	result := db.Where(emailQueryPattern, acc.Email).First(&existing)
	if result.Error == nil {
		return ErrEmailExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return db.Create(acc).Error
}

// ProfilePatch carries the fields an authenticated member may change on
// their own account. Nil fields are left untouched.
type ProfilePatch struct {
	Role          *models.Role
	Phone         *string
	Institution   *string
	Bio           *string
	WalletAddress *string
}

// UpdateProfile applies an explicit, authenticated profile update. This is the
// only path that changes the role after account creation.
func UpdateProfile(db *gorm.DB, id uint64, patch ProfilePatch) (*models.Account, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	updates := map[string]interface{}{}

	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, ErrInvalidRole
		}

		updates["role"] = *patch.Role
	}

	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}

	if patch.Institution != nil {
		updates["institution"] = *patch.Institution
	}

	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}

	if patch.WalletAddress != nil {
		updates["wallet_address"] = *patch.WalletAddress
	}

	if len(updates) > 0 {
		result := db.Model(&models.Account{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}

		if result.RowsAffected == 0 {
			return nil, ErrAccountNotFound
		}
	}

	return GetByID(db, id)
}

// AddDocument appends a submitted credential document to an account.
func AddDocument(db *gorm.DB, id uint64, name, blobRef string) (*models.Document, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	// reject documents for unknown accounts up front
	if _, err := GetByID(db, id); err != nil {
		return nil, err
	}

	doc := &models.Document{
		AccountID: id,
		Name:      name,
		BlobRef:   blobRef,
	}

	if err := db.Create(doc).Error; err != nil {
		return nil, err
	}

	return doc, nil
}
