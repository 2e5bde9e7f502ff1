package users

import (
	"context"

	"github.com/dmitrijs2005/cloudsphere/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. It returns common.ErrorAlreadyExists when
	// the principal is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, principal string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	SetBlocked(ctx context.Context, principal string, blocked bool) error
	// ReserveStorage adds size to the used storage only if the result stays
	// within the limit, otherwise common.ErrorQuotaExceeded.
	ReserveStorage(ctx context.Context, principal string, size int64) error
	ReleaseStorage(ctx context.Context, principal string, size int64) error
	IncrementUploads(ctx context.Context, principal string) error
}
