// Package main is the entry point for the scholarden-admin service,
// the onboarding, session and credential-review backend of Scholarden.
package main
