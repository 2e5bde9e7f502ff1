package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC status codes. The reason strings
// let clients tell "not registered" and "blocked" apart from other errors
// sharing the same code.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotRegistered):
		return status.Error(codes.NotFound, common.ReasonNotRegistered)
	case errors.Is(err, common.ErrorBlocked):
		return status.Error(codes.FailedPrecondition, common.ReasonBlocked)
	case errors.Is(err, common.ErrorQuotaExceeded):
		return status.Error(codes.ResourceExhausted, common.ReasonQuotaExceeded)
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "admin role required")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, common.ReasonAlreadyRegistered)
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
