package core

import (
	"context"
	"errors"
)

var (
	ErrProviderExchange  = errors.New("provider code exchange failed")
	ErrProfileIncomplete = errors.New("provider profile missing required field")
)

// Profile represents the identity provider's view of the authenticated
// end-user. It is consumed once to resolve a local account, then discarded.
type Profile struct {
	ProviderUserID string
	Email          string
	Name           string
	Picture        string
}

type IdentityProvider interface {
	// AuthCodeURL builds the provider authorization URL carrying the given
	// CSRF state token. It performs no network call.
	AuthCodeURL(state string) string

	// Authenticate exchanges an authorization code for the end-user's profile.
	Authenticate(ctx context.Context, code string) (*Profile, error)
}
