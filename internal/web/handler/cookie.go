package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scholarden/scholarden-admin/internal/config"
)

// SetSessionCookie attaches a freshly issued session token to the response.
func SetSessionCookie(c *fiber.Ctx, cfg *config.Config, token string) {
	cookie := &fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		MaxAge:   int(cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if cfg.DevMode {
		cookie.Secure = false
	}

	c.Cookie(cookie)
}

// ClearSessionCookie removes the session cookie from the client.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		MaxAge:   -1,
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// SetIntentCookie attaches the intent correlation token for the sign-in
// redirect round trip.
func SetIntentCookie(c *fiber.Ctx, cfg *config.Config, name, token string, ttl time.Duration) {
	cookie := &fiber.Cookie{
		Name:     name,
		Value:    token,
		MaxAge:   int(ttl.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if cfg.DevMode {
		cookie.Secure = false
	}

	c.Cookie(cookie)
}

// ClearIntentCookie removes the intent cookie once it was consumed.
func ClearIntentCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		MaxAge:   -1,
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
