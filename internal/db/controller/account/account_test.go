package account

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.Account{}, &models.Document{}); err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}

	return db
}

func createTestAccount(t *testing.T, db *gorm.DB, email string) *models.Account {
	t.Helper()

	acc := &models.Account{
		Email:     email,
		Name:      "Member",
		Role:      models.RoleStudent,
		KYCStatus: models.KYCPending,
	}

	if err := Create(db, acc); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	return acc
}

func TestCreateAndGet(t *testing.T) {
	db := newTestDB(t)

	acc := createTestAccount(t, db, "alice@x.com")

	got, err := GetByID(db, acc.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.Email != "alice@x.com" {
		t.Fatalf("unexpected email %q", got.Email)
	}

	byEmail, err := GetByEmail(db, "alice@x.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}

	if byEmail.ID != acc.ID {
		t.Fatalf("GetByEmail returned wrong account: %d", byEmail.ID)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	createTestAccount(t, db, "alice@x.com")

	err := Create(db, &models.Account{Email: "alice@x.com", Role: models.RoleStudent})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestCreateEmptyEmail(t *testing.T) {
	db := newTestDB(t)

	if err := Create(db, &models.Account{}); !errors.Is(err, ErrEmailEmpty) {
		t.Fatalf("expected ErrEmailEmpty, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)

	if _, err := GetByID(db, 42); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)

	acc := createTestAccount(t, db, "alice@x.com")

	role := models.RoleProfessional
	phone := "+49123"
	bio := "about me"

	updated, err := UpdateProfile(db, acc.ID, ProfilePatch{
		Role:  &role,
		Phone: &phone,
		Bio:   &bio,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	if updated.Role != models.RoleProfessional || updated.Phone != "+49123" || updated.Bio != "about me" {
		t.Fatalf("patch not applied: %+v", updated)
	}

	// nil fields stay untouched
	if updated.Email != "alice@x.com" || updated.Name != "Member" {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}
}

func TestUpdateProfileInvalidRole(t *testing.T) {
	db := newTestDB(t)

	acc := createTestAccount(t, db, "alice@x.com")

	bad := models.Role("wizard")

	if _, err := UpdateProfile(db, acc.ID, ProfilePatch{Role: &bad}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUpdateProfileUnknownAccount(t *testing.T) {
	db := newTestDB(t)

	phone := "+1"

	if _, err := UpdateProfile(db, 42, ProfilePatch{Phone: &phone}); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestUpdateProfileEmptyPatch(t *testing.T) {
	db := newTestDB(t)

	acc := createTestAccount(t, db, "alice@x.com")

	got, err := UpdateProfile(db, acc.ID, ProfilePatch{})
	if err != nil {
		t.Fatalf("empty patch must be a no-op, got %v", err)
	}

	if got.ID != acc.ID {
		t.Fatalf("unexpected account: %d", got.ID)
	}
}

func TestAddDocument(t *testing.T) {
	db := newTestDB(t)

	acc := createTestAccount(t, db, "alice@x.com")

	doc, err := AddDocument(db, acc.ID, "diploma.pdf", "blob-1")
	if err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}

	if doc.ID == 0 || doc.AccountID != acc.ID {
		t.Fatalf("unexpected document: %+v", doc)
	}

	got, err := GetByID(db, acc.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if len(got.Documents) != 1 || got.Documents[0].Name != "diploma.pdf" {
		t.Fatalf("document not preloaded: %+v", got.Documents)
	}
}

func TestAddDocumentUnknownAccount(t *testing.T) {
	db := newTestDB(t)

	if _, err := AddDocument(db, 42, "x.pdf", "blob"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestNilDB(t *testing.T) {
	if _, err := GetByID(nil, 1); !errors.Is(err, ErrDBNil) {
		t.Fatalf("expected ErrDBNil, got %v", err)
	}

	if err := Create(nil, &models.Account{Email: "a@x.com"}); !errors.Is(err, ErrDBNil) {
		t.Fatalf("expected ErrDBNil, got %v", err)
	}
}
