package profile

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/auth"
	"github.com/scholarden/scholarden-admin/internal/config"
	"github.com/scholarden/scholarden-admin/internal/db/models"
	"github.com/scholarden/scholarden-admin/internal/web/handler"
	"github.com/scholarden/scholarden-admin/internal/web/middleware/claims"
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

func newTestService(t *testing.T) (*fiber.App, *gorm.DB, *auth.TokenService) {
	t.Helper()

	cfg := &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute, SigningKey: "test-signing-key"},
		},
	}

	db := newTestDB(t)
	app := fiber.New()

	tokens := auth.NewTokenService(
		cfg.Webserver.Session.SigningKey,
		cfg.Webserver.URL,
		cfg.Webserver.Session.ExpiryTime,
		nil,
	)

	app.Use(claims.New(tokens))

	var s Service
	s.Init(app, cfg, db)

	return app, db, tokens
}

func createAccount(t *testing.T, db *gorm.DB, email string) *models.Account {
	t.Helper()

	acc := &models.Account{
		Email:     email,
		Name:      "Member " + email,
		Role:      models.RoleStudent,
		KYCStatus: models.KYCPending,
	}

	if err := db.Create(acc).Error; err != nil {
		t.Fatalf("failed to create account %s: %v", email, err)
	}

	return acc
}

func perform(t *testing.T, app *fiber.App, method, target, sessionToken, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: handler.SessionCookie, Value: sessionToken})
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestGetOwnProfile(t *testing.T) {
	app, db, tokens := newTestService(t)

	acc := createAccount(t, db, "alice@x.com")

	token, err := tokens.Issue(acc)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	resp := perform(t, app, http.MethodGet, Path, token, "")

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	var view profileView

	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if view.Email != "alice@x.com" || view.Role != models.RoleStudent {
		t.Fatalf("unexpected profile: %+v", view)
	}
}

func TestGetWithoutSession(t *testing.T) {
	app, _, _ := newTestService(t)

	resp := perform(t, app, http.MethodGet, Path, "", "")

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 Unauthorized, got %d", resp.StatusCode)
	}
}

func TestPostUpdatesProfile(t *testing.T) {
	app, db, tokens := newTestService(t)

	acc := createAccount(t, db, "alice@x.com")

	token, err := tokens.Issue(acc)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	resp := perform(t, app, http.MethodPost, Path, token,
		`{"role":"researcher","institution":"Test University","bio":"hello"}`)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	var stored models.Account
	if err := db.First(&stored, acc.ID).Error; err != nil {
		t.Fatalf("failed to reload account: %v", err)
	}

	if stored.Role != models.RoleResearcher || stored.Institution != "Test University" {
		t.Fatalf("update not persisted: %+v", stored)
	}

	// untouched fields stay
	if stored.Email != "alice@x.com" {
		t.Fatalf("email must not change, got %q", stored.Email)
	}
}

func TestPostRejectsUnknownRole(t *testing.T) {
	app, db, tokens := newTestService(t)

	acc := createAccount(t, db, "alice@x.com")

	token, err := tokens.Issue(acc)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	resp := perform(t, app, http.MethodPost, Path, token, `{"role":"wizard"}`)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 Bad Request, got %d", resp.StatusCode)
	}

	var stored models.Account
	if err := db.First(&stored, acc.ID).Error; err != nil {
		t.Fatalf("failed to reload account: %v", err)
	}

	if stored.Role != models.RoleStudent {
		t.Fatalf("rejected update still changed the role: %q", stored.Role)
	}
}

func TestPostDocumentAllocatesBlobRef(t *testing.T) {
	app, db, tokens := newTestService(t)

	acc := createAccount(t, db, "alice@x.com")

	token, err := tokens.Issue(acc)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	resp := perform(t, app, http.MethodPost, DocumentsPath, token, `{"name":"diploma.pdf"}`)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d", resp.StatusCode)
	}

	var view documentView

	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if view.Name != "diploma.pdf" || view.BlobRef == "" {
		t.Fatalf("unexpected document view: %+v", view)
	}

	var count int64
	if err := db.Model(&models.Document{}).Where("account_id = ?", acc.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count documents: %v", err)
	}

	if count != 1 {
		t.Fatalf("expected 1 document, got %d", count)
	}
}

func TestPostDocumentRequiresName(t *testing.T) {
	app, db, tokens := newTestService(t)

	acc := createAccount(t, db, "alice@x.com")

	token, err := tokens.Issue(acc)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	resp := perform(t, app, http.MethodPost, DocumentsPath, token, `{}`)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 Bad Request, got %d", resp.StatusCode)
	}
}
