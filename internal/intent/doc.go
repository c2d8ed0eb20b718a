// Package intent implements the pending-intent store for onboarding.
//
// A visitor declares a desired role (and optional contact and identity
// document fields) before being redirected to the external identity
// provider. That declaration has to survive exactly one redirect round trip:
// it is written once under an opaque correlation token, read once when the
// sign-in callback lands, and evicted by TTL if the visitor never comes back.
//
// The correlation token travels in a short-lived HTTP-only cookie. For
// clients still sending the legacy cookie format (the URL-encoded JSON
// object itself instead of a token), DecodeCookie turns the raw cookie value
// back into an Intent.
package intent
