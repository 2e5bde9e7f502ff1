package files

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"github.com/dmitrijs2005/cloudsphere/internal/server/models"
)

// MemoryRepository keeps file metadata in a map.
type MemoryRepository struct {
	mu    sync.Mutex
	files map[string]models.File
	now   func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{files: make(map[string]models.File), now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, file *models.File) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[file.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	file.UploadedAt = r.now().UTC()
	r.files[file.ID] = *file
	return file, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &f, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, owner string) ([]*models.File, error) {
	return r.filter(func(f *models.File) bool { return f.Owner == owner }), nil
}

func (r *MemoryRepository) ListAll(_ context.Context) ([]*models.File, error) {
	return r.filter(func(*models.File) bool { return true }), nil
}

func (r *MemoryRepository) filter(keep func(f *models.File) bool) []*models.File {
	r.mu.Lock()
	var result []*models.File
	for _, f := range r.files {
		if keep(&f) {
			result = append(result, &f)
		}
	}
	r.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].UploadedAt.After(result[j].UploadedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.files, id)
	return nil
}

func (r *MemoryRepository) Totals(_ context.Context) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var bytes int64
	for _, f := range r.files {
		bytes += f.Size
	}
	return int64(len(r.files)), bytes, nil
}

// CountByOwner reports how many files owner has.
func (r *MemoryRepository) CountByOwner(owner string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, f := range r.files {
		if f.Owner == owner {
			n++
		}
	}
	return n
}
