// Package handler holds shared constants and the handler service contract.
package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// SessionCookie is the cookie carrying the signed session token.
	SessionCookie = "session"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
