// Package backend defines the fixed contract the CloudSphere client uses to
// talk to the storage service, the models it exchanges, and a gRPC
// implementation of that contract.
//
// # Errors
//
// Transport failures are translated once, in mapError, into the sentinels in
// errors.go so callers can match them with errors.Is:
//
//	Unauthenticated, PermissionDenied  -> ErrUnauthorized
//	AlreadyExists                      -> ErrAlreadyRegistered
//	NotFound (not registered)          -> ErrNotRegistered
//	NotFound                           -> ErrNotFound
//	FailedPrecondition (blocked)       -> ErrBlocked
//	ResourceExhausted                  -> ErrQuotaExceeded
//	Unavailable, DeadlineExceeded      -> ErrUnavailable
//
// Anything else is wrapped as "rpc error: %w". Nothing is retried.
package backend
