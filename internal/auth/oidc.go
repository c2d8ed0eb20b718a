package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/scholarden/scholarden-admin/internal/db/models"
	"github.com/scholarden/scholarden-admin/internal/uniuri"
)

// ErrOIDCDisabled is returned when OIDC is disabled via configuration.
var ErrOIDCDisabled = errors.New("oidc authentication is disabled")

// OIDCConfig holds OpenID Connect (OIDC) configuration for authentication.
type OIDCConfig struct {
	// Enabled indicates if OIDC authentication is enabled.
	Enabled bool
	// ProviderURL is the OIDC provider's discovery URL (e.g., "https://accounts.google.com").
	ProviderURL string
	// ClientID is the OAuth2 client identifier.
	ClientID string
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string
	// RedirectURL is the OAuth2 callback URL where the provider redirects after authentication.
	RedirectURL string
	// Scopes are the OAuth2 scopes to request (default: ["openid", "profile", "email"]).
	Scopes []string
}

// AccountCreatedHook is invoked synchronously, exactly once, when a callback
// creates a new account. The cookie value is the raw onboarding intent
// cookie from the inbound request, empty when none was sent.
//
// Hook failures are logged and reported to the caller of HandleCallback via
// the account's default state, never by failing the sign-in itself.
type AccountCreatedHook func(acc *models.Account, intentCookie string) error

// OIDCProvider handles OIDC authentication against the external identity provider.
type OIDCProvider struct {
	config    *OIDCConfig
	provider  *oidc.Provider
	verifier  *oidc.IDTokenVerifier
	oauth2    oauth2.Config
	db        *gorm.DB
	onCreated AccountCreatedHook
}

// NewOIDCProvider creates a new OIDC provider. The hook wires the identity
// merge engine into the account creation path.
func NewOIDCProvider(ctx context.Context, config *OIDCConfig, db *gorm.DB, onCreated AccountCreatedHook) (*OIDCProvider, error) {
	if !config.Enabled {
		return nil, ErrOIDCDisabled
	}

	provider, err := oidc.NewProvider(ctx, config.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: config.ClientID,
	})

	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	oauth2Config := oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}

	return &OIDCProvider{
		config:    config,
		provider:  provider,
		verifier:  verifier,
		oauth2:    oauth2Config,
		db:        db,
		onCreated: onCreated,
	}, nil
}

// GenerateStateToken generates a random state token for CSRF protection.
func GenerateStateToken() string {
	return uniuri.NewLen(uniuri.TokenLen)
}

// GetAuthURL returns the OIDC authorization URL with state token.
func (p *OIDCProvider) GetAuthURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, verifies the identity and
// returns the account, creating it first if this email has never signed in.
//
// Account creation and the merge hook run before the first session token for
// this request can be issued, so the merge always completes (or fails) ahead
// of session enrichment.
func (p *OIDCProvider) HandleCallback(ctx context.Context, code, intentCookie string) (*models.Account, error) {
	oauth2Token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}

	if err = idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	if !claims.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	// exactly one account per email
	var acc models.Account

	err = p.db.Where("email = ?", claims.Email).First(&acc).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		acc = models.Account{
			Email:      claims.Email,
			Name:       claims.Name,
			Role:       models.RoleStudent,
			KYCStatus:  models.KYCPending,
			AuthSource: models.AuthSourceOIDC,
			ExternalID: claims.Sub,
		}

		if err = p.db.Create(&acc).Error; err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}

		// account-created hook: runs in the same request, before any
		// session token for this account exists
		if p.onCreated != nil {
			if hookErr := p.onCreated(&acc, intentCookie); hookErr != nil {
				// bounded degradation: the account stands with defaults
				log.Error().Err(hookErr).
					Uint64("account_id", acc.ID).
					Msg("account created hook failed, keeping defaults")
			}
		}
	case err != nil:
		return nil, fmt.Errorf("failed to query account: %w", err)
	default:
		// returning member: refresh provider supplied fields only
		acc.Name = claims.Name
		acc.ExternalID = claims.Sub

		if err = p.db.Save(&acc).Error; err != nil {
			return nil, fmt.Errorf("failed to update account: %w", err)
		}
	}

	return &acc, nil
}

// VerifyToken verifies the signature and claims of an OIDC ID token.
// It validates the token was issued by the configured provider and hasn't expired.
func (p *OIDCProvider) VerifyToken(ctx context.Context, rawToken string) (*oidc.IDToken, error) {
	return p.verifier.Verify(ctx, rawToken)
}

// GetLogoutURL constructs the OIDC provider's logout URL if supported.
// Returns an empty string if the provider doesn't support logout endpoints.
func (p *OIDCProvider) GetLogoutURL(idToken, postLogoutRedirectURI string) string {
	var claims struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}

	if err := p.provider.Claims(&claims); err != nil || claims.EndSessionEndpoint == "" {
		return ""
	}

	return fmt.Sprintf("%s?id_token_hint=%s&post_logout_redirect_uri=%s",
		claims.EndSessionEndpoint,
		idToken,
		postLogoutRedirectURI,
	)
}
