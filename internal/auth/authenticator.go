package auth

import (
	"context"
)

// Identity is the authenticated user as reported by the identity provider.
// It is opaque to the core except for the id used as the profile key.
type Identity struct {
	UID         string
	DisplayName string
	Email       string
}

// AuthStateFunc receives every authentication-state transition:
// a non-nil identity on sign-in, nil on sign-out.
type AuthStateFunc func(*Identity)

// Provider defines the interface for identity providers.
// This abstraction allows swapping the sign-in mechanism (signed tokens,
// OAuth, etc.) without changing the session layer.
type Provider interface {
	// SignIn authenticates and returns the identity.
	SignIn(ctx context.Context) (*Identity, error)

	// SignOut ends the current authentication.
	SignOut(ctx context.Context) error

	// OnAuthStateChanged registers fn for every transition and returns a
	// function that removes the registration.
	OnAuthStateChanged(fn AuthStateFunc) (unsubscribe func())
}
