package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured OIDC provider or an incomplete authentication flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrEmailNotVerified is returned when the identity provider reports an unverified email.
	ErrEmailNotVerified = errors.New("identity provider email is not verified")

	// ErrInvalidPassword is returned when the provided password is incorrect during local authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrAccountNotFound is returned when an account cannot be found during authentication.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidToken is returned when a session token fails verification.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrTokenSubjectMismatch is returned when a refresh is attempted against
	// an account that is not the token's subject.
	ErrTokenSubjectMismatch = errors.New("token subject does not match account")
)
