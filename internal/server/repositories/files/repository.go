package files

import (
	"context"

	"github.com/dmitrijs2005/cloudsphere/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	Get(ctx context.Context, id string) (*models.File, error)
	// ListByOwner returns the owner's files, newest first.
	ListByOwner(ctx context.Context, owner string) ([]*models.File, error)
	ListAll(ctx context.Context) ([]*models.File, error)
	Delete(ctx context.Context, id string) error
	// Totals reports the number of files and the bytes they occupy.
	Totals(ctx context.Context) (count int64, bytes int64, err error)
}
