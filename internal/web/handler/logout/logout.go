// Package logout clears the session cookie.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/scholarden/scholarden-admin/internal/config"
	"github.com/scholarden/scholarden-admin/internal/web/handler"
)

const (
	// Path is the path for logout.
	Path = "/logout"
)

// Service is the logout handler service.
type Service struct{}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config) {
	if app == nil || cfg == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	app.Post(Path, s.Post)
}

// Post invalidates the session on the client. Issued tokens stay valid until
// expiry; the server keeps no session state to revoke.
func (s *Service) Post(c *fiber.Ctx) error {
	handler.ClearSessionCookie(c)

	return c.SendStatus(fiber.StatusNoContent)
}
