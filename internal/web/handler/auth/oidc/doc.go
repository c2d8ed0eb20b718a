// Package oidc implements the external identity provider sign-in flow.
package oidc
