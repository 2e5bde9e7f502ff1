package cli

import (
	"errors"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/identity"
	"github.com/dmitrijs2005/cloudsphere/internal/client/session"
)

// describe turns an error into the line shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, session.ErrNoSession), errors.Is(err, backend.ErrActorNotReady):
		return "not signed in; use 'login' first"
	case errors.Is(err, identity.ErrLoginCancelled):
		return "login cancelled"
	case errors.Is(err, identity.ErrTokenExpired):
		return "your identity token has expired; log in again"
	case errors.Is(err, backend.ErrUnauthorized):
		return "not allowed: " + err.Error()
	case errors.Is(err, backend.ErrBlocked):
		return "your account is blocked"
	case errors.Is(err, backend.ErrUnavailable):
		return "server unavailable, try again later"
	default:
		return err.Error()
	}
}
