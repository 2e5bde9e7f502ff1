// Package prefs persists small client-side values: the remembered email, the
// remember-me flag and the identity token of the last session.
package prefs

import "context"

const (
	KeyRememberedEmail = "remembered_email"
	KeyRememberMe      = "remember_me"
	KeyIdentityToken   = "identity_token"
)

// Store is a string key-value store. Get reports ok=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
