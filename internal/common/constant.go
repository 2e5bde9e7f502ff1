// Package common contains constants and helpers shared by the CloudSphere
// client and the reference backend.
package common

// AccessTokenHeaderName is the gRPC metadata key carrying the caller's
// identity token on every outbound request.
const AccessTokenHeaderName = "access_token"

// Status reasons attached to gRPC errors so the client can tell expected
// business conditions apart from generic failures with the same code.
const (
	ReasonNotRegistered     = "not registered"
	ReasonAlreadyRegistered = "already registered"
	ReasonBlocked           = "account blocked"
	ReasonQuotaExceeded     = "storage quota exceeded"
)
