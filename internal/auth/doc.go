// Package auth provides identity provisioning and session token functionality.
//
// Two authentication sources are supported:
//   - OpenID Connect (OIDC) against the external identity provider; this is
//     the normal path for members and creates the account record on the
//     first successful sign-in for an email address.
//   - Local database authentication with Argon2id password hashing; only the
//     seeded founder account uses this, as a bootstrap before the identity
//     provider is configured.
//
// # Provisioning
//
// OIDCProvider drives the OAuth2/OIDC flow. When a callback creates a new
// account it synchronously invokes the registered AccountCreatedHook before
// returning, so the pending onboarding intent (role, phone, identity
// document) is merged inside the same request. Engine implements that hook:
// it consumes the intent from the store, applies it to the account exactly
// once with a conditional single-row write, and deliberately skips accounts
// that already carry a non-default role. A failed merge never fails the
// sign-in; the account simply keeps its defaults.
//
// # Session tokens
//
// TokenService issues the signed session artifact (an HS256 JWT) carrying
// the subject id, the account role and the admin flag. The admin flag is
// recomputed from the configured founder email allow-list at every issuance
// and refresh; it is never stored on the account and can not be forged
// through any account-writable field.
package auth
