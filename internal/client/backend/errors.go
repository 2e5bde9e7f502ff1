package backend

import "errors"

var (
	// ErrActorNotReady is returned when a backend call is attempted before an
	// authenticated actor exists. Calls are never queued.
	ErrActorNotReady = errors.New("actor not ready")

	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("account not registered")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrBlocked           = errors.New("account blocked")
	ErrUnavailable       = errors.New("server unavailable")
	ErrNotFound          = errors.New("not found")
	ErrQuotaExceeded     = errors.New("storage quota exceeded")
)
