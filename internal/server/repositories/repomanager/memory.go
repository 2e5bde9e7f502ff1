package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cloudsphere/internal/server/repositories/files"
	"github.com/dmitrijs2005/cloudsphere/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps all state in process memory. InTx runs
// transactions one at a time but does not roll back partial writes.
type MemoryRepositoryManager struct {
	mu    sync.Mutex
	repos Repos
}

var _ RepositoryManager = (*MemoryRepositoryManager)(nil)

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	f := files.NewMemoryRepository()
	return &MemoryRepositoryManager{
		repos: Repos{
			Users: users.NewMemoryRepository(f.CountByOwner),
			Files: f,
		},
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Repos() Repos {
	return m.repos
}

func (m *MemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, m.repos)
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
