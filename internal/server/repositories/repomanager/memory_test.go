package repomanager

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/cloudsphere/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryManager_SharesStateAcrossTx(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx))

	err := m.InTx(ctx, func(ctx context.Context, r Repos) error {
		if _, err := r.Users.Create(ctx, &models.User{Principal: "p-1", StorageLimit: 100}); err != nil {
			return err
		}
		_, err := r.Files.Create(ctx, &models.File{ID: "f-1", Owner: "p-1", Size: 10})
		return err
	})
	require.NoError(t, err)

	list, err := m.Repos().Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].FileCount)
	assert.NoError(t, m.Close())
}
