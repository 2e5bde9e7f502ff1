package users

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"github.com/dmitrijs2005/cloudsphere/internal/server/models"
)

// MemoryRepository keeps accounts in a map. It backs the server when no
// database DSN is configured and in tests.
type MemoryRepository struct {
	mu        sync.Mutex
	users     map[string]models.User
	fileCount func(principal string) int64
	now       func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository builds an empty repository. fileCount, when not nil,
// fills FileCount in List.
func NewMemoryRepository(fileCount func(principal string) int64) *MemoryRepository {
	return &MemoryRepository{
		users:     make(map[string]models.User),
		fileCount: fileCount,
		now:       time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Principal]; ok {
		return nil, common.ErrorAlreadyExists
	}
	user.RegisteredAt = r.now().UTC()
	r.users[user.Principal] = *user
	return user, nil
}

func (r *MemoryRepository) Get(_ context.Context, principal string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[principal]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*models.User, error) {
	r.mu.Lock()
	result := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, &u)
	}
	r.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].RegisteredAt.Equal(result[j].RegisteredAt) {
			return result[i].RegisteredAt.Before(result[j].RegisteredAt)
		}
		return result[i].Principal < result[j].Principal
	})
	if r.fileCount != nil {
		for _, u := range result {
			u.FileCount = r.fileCount(u.Principal)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *MemoryRepository) update(principal string, fn func(u *models.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[principal]
	if !ok {
		return common.ErrorNotFound
	}
	if err := fn(&u); err != nil {
		return err
	}
	r.users[principal] = u
	return nil
}

func (r *MemoryRepository) SetBlocked(_ context.Context, principal string, blocked bool) error {
	return r.update(principal, func(u *models.User) error {
		u.Blocked = blocked
		return nil
	})
}

func (r *MemoryRepository) ReserveStorage(_ context.Context, principal string, size int64) error {
	err := r.update(principal, func(u *models.User) error {
		if u.StorageUsed+size > u.StorageLimit {
			return common.ErrorQuotaExceeded
		}
		u.StorageUsed += size
		return nil
	})
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorQuotaExceeded
	}
	return err
}

func (r *MemoryRepository) ReleaseStorage(_ context.Context, principal string, size int64) error {
	err := r.update(principal, func(u *models.User) error {
		u.StorageUsed = max(u.StorageUsed-size, 0)
		return nil
	})
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}

func (r *MemoryRepository) IncrementUploads(_ context.Context, principal string) error {
	return r.update(principal, func(u *models.User) error {
		u.UploadCount++
		return nil
	})
}
