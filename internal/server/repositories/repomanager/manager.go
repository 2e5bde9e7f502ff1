package repomanager

import (
	"context"

	"github.com/dmitrijs2005/cloudsphere/internal/server/repositories/files"
	"github.com/dmitrijs2005/cloudsphere/internal/server/repositories/users"
)

// Repos is a set of repositories sharing one handle, either the pool or a
// transaction.
type Repos struct {
	Users users.Repository
	Files files.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Repos() Repos
	// InTx runs fn with repositories bound to one transaction. The
	// transaction commits when fn returns nil.
	InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
	Close() error
}
