// Package identity tracks who the CLI user is. A Lifecycle owns the current
// Identity and drives a Provider through restore, login and logout.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLoginCancelled  = errors.New("login cancelled")
	ErrInitializing    = errors.New("identity is still initializing")
	ErrLoginInProgress = errors.New("login already in progress")
	ErrInvalidToken    = errors.New("invalid identity token")
	ErrTokenExpired    = errors.New("identity token expired")
)

// Identity is an authenticated principal. Principal is opaque to the client.
type Identity struct {
	Principal string
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the identity is past its expiry. A zero ExpiresAt
// never expires.
func (i *Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Provider is the identity provider behind a Lifecycle.
type Provider interface {
	// Restore returns the identity of a previous session, or nil when there
	// is none.
	Restore(ctx context.Context) (*Identity, error)
	// Authenticate runs an interactive login.
	Authenticate(ctx context.Context) (*Identity, error)
	// Forget drops any persisted session.
	Forget(ctx context.Context) error
}
