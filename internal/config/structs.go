package config

import (
	"time"

	"github.com/scholarden/scholarden-admin/internal/logger"
)

// Session settings for the signed session artifact.
type Session struct {
	// ExpiryTime is how long an issued session token stays valid.
	ExpiryTime time.Duration
	// SigningKey is the HMAC key used to sign session tokens.
	SigningKey string
}

// Intent settings for the pre-authentication intent store.
type Intent struct {
	// TTL is how long a captured intent survives before eviction.
	// It should cover a typical sign-in redirect round trip.
	TTL time.Duration
}

// OIDCAuth holds the external identity provider settings.
type OIDCAuth struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// LocalDBAuth enables the local bootstrap login for seeded accounts.
type LocalDBAuth struct {
	Enabled bool
}

// Auth groups the authentication settings.
type Auth struct {
	OIDC    OIDCAuth
	LocalDB LocalDBAuth

	// FounderEmails is the administrator allow-list. The admin flag on a
	// session token is recomputed from this list at every issuance and is
	// never stored on the account record.
	FounderEmails []string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
	Intent    Intent
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}
