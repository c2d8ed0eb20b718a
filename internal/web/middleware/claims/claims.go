// Package claims provides fiber middleware for the signed session token.
package claims

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scholarden/scholarden-admin/internal/auth"
	"github.com/scholarden/scholarden-admin/internal/web/handler"
)

const localsKey = "claims"

// New returns middleware that verifies the session cookie and stores the
// token claims in the request locals. Requests without a valid token pass
// through without claims; protected routes gate on Required or on the
// service-level admin check.
func New(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(handler.SessionCookie)
		if cookie == "" {
			return c.Next()
		}

		parsed, err := tokens.Verify(cookie)
		if err != nil {
			// invalid or expired token is the same as no token
			return c.Next()
		}

		c.Locals(localsKey, parsed)

		return c.Next()
	}
}

// Required returns middleware that rejects requests without verified claims.
func Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if FromCtx(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		return c.Next()
	}
}

// FromCtx returns the verified claims of the request, or nil.
func FromCtx(c *fiber.Ctx) *auth.Claims {
	parsed, ok := c.Locals(localsKey).(*auth.Claims)
	if !ok {
		return nil
	}

	return parsed
}
