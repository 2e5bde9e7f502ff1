package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	restoreID  *Identity
	restoreErr error

	authID  *Identity
	authErr error
	block   chan struct{}

	mu        sync.Mutex
	authCalls int
	forgot    int
}

func (f *fakeProvider) Restore(ctx context.Context) (*Identity, error) {
	return f.restoreID, f.restoreErr
}

func (f *fakeProvider) Authenticate(ctx context.Context) (*Identity, error) {
	f.mu.Lock()
	f.authCalls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.authID, f.authErr
}

func (f *fakeProvider) Forget(ctx context.Context) error {
	f.mu.Lock()
	f.forgot++
	f.mu.Unlock()
	return nil
}

func TestLifecycle_InitializingUntilInit(t *testing.T) {
	lc := NewLifecycle(&fakeProvider{}, logging.Nop())
	assert.True(t, lc.Initializing())

	_, err := lc.Login(context.Background())
	require.ErrorIs(t, err, ErrInitializing)

	lc.Init(context.Background())
	assert.False(t, lc.Initializing())
	assert.Nil(t, lc.Identity())
}

func TestLifecycle_InitRestoresAndNotifies(t *testing.T) {
	id := &Identity{Principal: "p1"}
	lc := NewLifecycle(&fakeProvider{restoreID: id}, logging.Nop())

	var seen []*Identity
	lc.Subscribe(func(i *Identity) { seen = append(seen, i) })

	lc.Init(context.Background())
	assert.Equal(t, id, lc.Identity())
	require.Len(t, seen, 1)
	assert.Equal(t, "p1", seen[0].Principal)
}

func TestLifecycle_InitRestoreErrorIsSignedOut(t *testing.T) {
	lc := NewLifecycle(&fakeProvider{restoreErr: errors.New("disk")}, logging.Nop())
	lc.Init(context.Background())

	assert.False(t, lc.Initializing())
	assert.Nil(t, lc.Identity())
}

func TestLifecycle_LoginSuccessAndLogout(t *testing.T) {
	p := &fakeProvider{authID: &Identity{Principal: "p1"}}
	lc := NewLifecycle(p, logging.Nop())
	lc.Init(context.Background())

	var seen []*Identity
	unsubscribe := lc.Subscribe(func(i *Identity) { seen = append(seen, i) })

	id, err := lc.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p1", id.Principal)
	assert.Equal(t, id, lc.Identity())

	require.NoError(t, lc.Logout(context.Background()))
	assert.Nil(t, lc.Identity())
	assert.Equal(t, 1, p.forgot)

	require.Len(t, seen, 2)
	assert.Nil(t, seen[1])

	unsubscribe()
	_, err = lc.Login(context.Background())
	require.NoError(t, err)
	assert.Len(t, seen, 2, "unsubscribed observer is not called")
}

func TestLifecycle_LoginFailureNoRetry(t *testing.T) {
	p := &fakeProvider{authErr: ErrLoginCancelled}
	lc := NewLifecycle(p, logging.Nop())
	lc.Init(context.Background())

	_, err := lc.Login(context.Background())
	require.ErrorIs(t, err, ErrLoginCancelled)
	assert.Nil(t, lc.Identity())
	assert.Equal(t, 1, p.authCalls)
	assert.False(t, lc.LoggingIn())
}

func TestLifecycle_ConcurrentLoginRejected(t *testing.T) {
	p := &fakeProvider{authID: &Identity{Principal: "p1"}, block: make(chan struct{})}
	lc := NewLifecycle(p, logging.Nop())
	lc.Init(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := lc.Login(context.Background())
		done <- err
	}()

	require.Eventually(t, lc.LoggingIn, time.Second, time.Millisecond)

	_, err := lc.Login(context.Background())
	require.ErrorIs(t, err, ErrLoginInProgress)

	close(p.block)
	require.NoError(t, <-done)
}
