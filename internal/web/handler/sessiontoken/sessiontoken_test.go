package sessiontoken

import (
	"net/http"
	"net/http/httptest"
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

func newTestService(t *testing.T, founders []string) (*fiber.App, *gorm.DB, *auth.TokenService) {
	t.Helper()

	cfg := &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute, SigningKey: "test-signing-key"},
		},
		Auth: config.Auth{FounderEmails: founders},
	}

	db := newTestDB(t)
	app := fiber.New()

	tokens := auth.NewTokenService(
		cfg.Webserver.Session.SigningKey,
		cfg.Webserver.URL,
		cfg.Webserver.Session.ExpiryTime,
		cfg.Auth.FounderEmails,
	)

	app.Use(claims.New(tokens))

	var s Service
	s.Init(app, cfg, db, tokens)

	return app, db, tokens
}

func performRefresh(t *testing.T, app *fiber.App, sessionToken string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, nil)
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: handler.SessionCookie, Value: sessionToken})
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == handler.SessionCookie {
			return c.Value
		}
	}

	return ""
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	app, db, tokens := newTestService(t, nil)

	acc := &models.Account{
		Email:     "alice@x.com",
		Name:      "Alice",
		Role:      models.RoleStudent,
		KYCStatus: models.KYCPending,
	}
	if err := db.Create(acc).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	token, err := tokens.Issue(acc)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	// role changes after the token was issued
	if err := db.Model(acc).Update("role", models.RoleResearcher).Error; err != nil {
		t.Fatalf("failed to update role: %v", err)
	}

	resp := performRefresh(t, app, token)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	refreshed := sessionCookie(resp)
	if refreshed == "" {
		t.Fatal("expected refreshed session cookie")
	}

	newClaims, err := tokens.Verify(refreshed)
	if err != nil {
		t.Fatalf("refreshed token does not verify: %v", err)
	}

	if newClaims.Role != models.RoleResearcher {
		t.Fatalf("expected refreshed role researcher, got %q", newClaims.Role)
	}

	if newClaims.Subject == "" || newClaims.Subject != "1" {
		t.Fatalf("subject must survive the refresh, got %q", newClaims.Subject)
	}
}

func TestRefreshDerivesAdminFromAllowList(t *testing.T) {
	app, db, tokens := newTestService(t, []string{"alice@x.com"})

	acc := &models.Account{
		Email:     "alice@x.com",
		Name:      "Alice",
		Role:      models.RoleStudent,
		KYCStatus: models.KYCPending,
	}
	if err := db.Create(acc).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	token, err := tokens.Issue(acc)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	resp := performRefresh(t, app, token)

	defer func() {
		_ = resp.Body.Close()
	}()

	newClaims, err := tokens.Verify(sessionCookie(resp))
	if err != nil {
		t.Fatalf("refreshed token does not verify: %v", err)
	}

	if !newClaims.IsAdmin {
		t.Fatal("allow-listed email must carry the admin flag after refresh")
	}
}

func TestRefreshWithoutSession(t *testing.T) {
	app, _, _ := newTestService(t, nil)

	resp := performRefresh(t, app, "")

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 Unauthorized, got %d", resp.StatusCode)
	}
}

func TestRefreshWithForgedToken(t *testing.T) {
	app, _, _ := newTestService(t, nil)

	other := auth.NewTokenService("other-key", "http://localhost", time.Minute, nil)

	forged, err := other.Issue(&models.Account{ID: 1, Email: "a@x.com", Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	resp := performRefresh(t, app, forged)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 Unauthorized, got %d", resp.StatusCode)
	}
}

func TestRefreshForDeletedAccount(t *testing.T) {
	app, db, tokens := newTestService(t, nil)

	acc := &models.Account{
		Email:     "gone@x.com",
		Name:      "Gone",
		Role:      models.RoleStudent,
		KYCStatus: models.KYCPending,
	}
	if err := db.Create(acc).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	token, err := tokens.Issue(acc)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if err := db.Delete(acc).Error; err != nil {
		t.Fatalf("failed to delete account: %v", err)
	}

	resp := performRefresh(t, app, token)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 Unauthorized, got %d", resp.StatusCode)
	}
}
