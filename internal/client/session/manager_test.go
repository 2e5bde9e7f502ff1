package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/client/actor"
	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/backend/backendtest"
	"github.com/dmitrijs2005/cloudsphere/internal/client/cache"
	"github.com/dmitrijs2005/cloudsphere/internal/client/identity"
	"github.com/dmitrijs2005/cloudsphere/internal/client/prefs"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	restore   *identity.Identity
	auth      *identity.Identity
	authErr   error
	authCalls int
}

func (p *fakeProvider) Restore(context.Context) (*identity.Identity, error) { return p.restore, nil }
func (p *fakeProvider) Authenticate(context.Context) (*identity.Identity, error) {
	p.authCalls++
	return p.auth, p.authErr
}
func (p *fakeProvider) Forget(context.Context) error { return nil }

type harness struct {
	provider *fakeProvider
	fake     *backendtest.Fake
	store    *prefs.MemoryStore
	factory  *actor.Factory
	cache    *cache.Cache
	manager  *Manager
}

func newHarness(t *testing.T, fake *backendtest.Fake, provider *fakeProvider) *harness {
	t.Helper()
	h := &harness{provider: provider, fake: fake, store: prefs.NewMemoryStore()}
	l := logging.Nop()

	lc := identity.NewLifecycle(provider, l)
	h.factory = actor.NewFactory(func(ctx context.Context, id *identity.Identity) (backend.Backend, error) {
		return fake, nil
	}, l)
	h.cache = cache.New(32, time.Minute, h.factory.Ready, l)
	h.manager = NewManager(lc, h.factory, h.cache, prefs.NewPreferences(h.store), l)
	t.Cleanup(h.manager.Stop)
	return h
}

func TestManager_StartsInitializing(t *testing.T) {
	h := newHarness(t, &backendtest.Fake{}, &fakeProvider{})
	assert.Equal(t, StateInitializing, h.manager.State())

	_, err := h.manager.Login(context.Background(), "a@b.co", false)
	require.ErrorIs(t, err, identity.ErrInitializing)

	require.NoError(t, h.manager.Start(context.Background()))
	assert.Equal(t, StateSignedOut, h.manager.State())
	_, err = h.manager.Session()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestManager_LoginToReady(t *testing.T) {
	fake := &backendtest.Fake{
		RegisterUserFn: func(ctx context.Context, email string) (*backend.UserProfile, error) {
			return &backend.UserProfile{Principal: "p1", Email: "canonical@b.co"}, nil
		},
		GetCallerUserRoleFn: func(ctx context.Context) (backend.Role, error) { return backend.RoleAdmin, nil },
	}
	h := newHarness(t, fake, &fakeProvider{auth: &identity.Identity{Principal: "p1", Token: "t"}})
	ctx := context.Background()
	require.NoError(t, h.manager.Start(ctx))

	sess, err := h.manager.Login(ctx, " a@b.co ", true)
	require.NoError(t, err)
	assert.Equal(t, StateReady, h.manager.State())
	assert.Equal(t, "p1", sess.Principal())
	assert.True(t, sess.IsAdmin())
	assert.True(t, sess.Registrar.State().Terminal())

	got, err := h.manager.Session()
	require.NoError(t, err)
	assert.Same(t, sess, got)

	email, _, _ := h.store.Get(ctx, prefs.KeyRememberedEmail)
	assert.Equal(t, "canonical@b.co", email)
	remember, _, _ := h.store.Get(ctx, prefs.KeyRememberMe)
	assert.Equal(t, "true", remember)

	_, err = h.manager.Login(ctx, "a@b.co", true)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("RegisterUser"))
	assert.Equal(t, 1, h.provider.authCalls)
}

func TestManager_InvalidEmailMakesNoCalls(t *testing.T) {
	h := newHarness(t, &backendtest.Fake{}, &fakeProvider{auth: &identity.Identity{Principal: "p1"}})
	require.NoError(t, h.manager.Start(context.Background()))

	_, err := h.manager.Login(context.Background(), "nope", false)
	require.ErrorIs(t, err, ErrInvalidEmail)
	assert.Zero(t, h.provider.authCalls)
	assert.Zero(t, h.fake.TotalCalls())
}

func TestManager_LoginCancelled(t *testing.T) {
	h := newHarness(t, &backendtest.Fake{}, &fakeProvider{authErr: identity.ErrLoginCancelled})
	require.NoError(t, h.manager.Start(context.Background()))

	_, err := h.manager.Login(context.Background(), "a@b.co", false)
	require.ErrorIs(t, err, identity.ErrLoginCancelled)
	assert.Equal(t, StateSignedOut, h.manager.State())
	assert.ErrorIs(t, h.manager.LastError(), identity.ErrLoginCancelled)
}

func TestManager_NotRegisteredThenSignUp(t *testing.T) {
	signedUp := false
	fake := &backendtest.Fake{RegisterUserFn: func(ctx context.Context, email string) (*backend.UserProfile, error) {
		if !signedUp {
			return nil, backend.ErrNotRegistered
		}
		return &backend.UserProfile{Principal: "p1", Email: email}, nil
	}}
	h := newHarness(t, fake, &fakeProvider{auth: &identity.Identity{Principal: "p1"}})
	ctx := context.Background()
	require.NoError(t, h.manager.Start(ctx))

	_, err := h.manager.Login(ctx, "a@b.co", false)
	require.ErrorIs(t, err, backend.ErrNotRegistered)
	assert.Equal(t, StateNotRegistered, h.manager.State())

	signedUp = true
	sess, err := h.manager.SignUp(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, StateReady, h.manager.State())
	assert.False(t, sess.IsAdmin())
	assert.Equal(t, 2, fake.Calls("RegisterUser"))
}

func TestManager_RegistrationFailure(t *testing.T) {
	fake := &backendtest.Fake{RegisterUserFn: func(ctx context.Context, email string) (*backend.UserProfile, error) {
		return nil, errors.New("boom")
	}}
	h := newHarness(t, fake, &fakeProvider{auth: &identity.Identity{Principal: "p1"}})
	require.NoError(t, h.manager.Start(context.Background()))

	_, err := h.manager.Login(context.Background(), "a@b.co", false)
	require.Error(t, err)
	assert.Equal(t, StateFailed, h.manager.State())
}

func TestManager_RoleFailureStillReadyAsGuest(t *testing.T) {
	fake := &backendtest.Fake{GetCallerUserRoleFn: func(ctx context.Context) (backend.Role, error) {
		return backend.RoleGuest, backend.ErrUnavailable
	}}
	h := newHarness(t, fake, &fakeProvider{auth: &identity.Identity{Principal: "p1"}})
	require.NoError(t, h.manager.Start(context.Background()))

	sess, err := h.manager.Login(context.Background(), "a@b.co", false)
	require.NoError(t, err)
	assert.Equal(t, StateReady, h.manager.State())
	assert.False(t, sess.IsAdmin())
}

func TestManager_LogoutTearsDown(t *testing.T) {
	fake := &backendtest.Fake{}
	h := newHarness(t, fake, &fakeProvider{auth: &identity.Identity{Principal: "p1"}})
	ctx := context.Background()
	require.NoError(t, h.manager.Start(ctx))

	_, err := h.manager.Login(ctx, "a@b.co", false)
	require.NoError(t, err)
	h.cache.Put(cache.KeyFiles, "x")

	require.NoError(t, h.manager.Logout(ctx))
	assert.Equal(t, StateSignedOut, h.manager.State())
	_, err = h.manager.Session()
	require.ErrorIs(t, err, ErrNoSession)
	assert.True(t, fake.Closed())
	assert.Zero(t, h.cache.Len())
	assert.False(t, h.factory.Ready())
}

func TestManager_StartResumesRegisteredSession(t *testing.T) {
	fake := &backendtest.Fake{GetCallerUserProfileFn: func(ctx context.Context) (*backend.UserProfile, error) {
		return &backend.UserProfile{Principal: "p1"}, nil
	}}
	h := newHarness(t, fake, &fakeProvider{restore: &identity.Identity{Principal: "p1"}})

	require.NoError(t, h.manager.Start(context.Background()))
	assert.Equal(t, StateReady, h.manager.State())
	assert.Zero(t, fake.Calls("RegisterUser"))
}

func TestManager_StartAutoRegistersWithRememberedEmail(t *testing.T) {
	fake := &backendtest.Fake{}
	h := newHarness(t, fake, &fakeProvider{restore: &identity.Identity{Principal: "p1"}})
	require.NoError(t, h.store.Set(context.Background(), prefs.KeyRememberedEmail, "a@b.co"))

	require.NoError(t, h.manager.Start(context.Background()))
	assert.Equal(t, StateReady, h.manager.State())
	assert.Equal(t, 1, fake.Calls("RegisterUser"))
}

func TestManager_StartWithoutProfileOrEmail(t *testing.T) {
	fake := &backendtest.Fake{}
	h := newHarness(t, fake, &fakeProvider{restore: &identity.Identity{Principal: "p1"}})

	err := h.manager.Start(context.Background())
	require.ErrorIs(t, err, backend.ErrNotRegistered)
	assert.Equal(t, StateNotRegistered, h.manager.State())
	assert.Zero(t, fake.Calls("RegisterUser"))
}

func TestManager_AutoRegisterNeedsSession(t *testing.T) {
	h := newHarness(t, &backendtest.Fake{}, &fakeProvider{})
	_, err := h.manager.AutoRegister(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "resolving-role", StateResolvingRole.String())
	assert.Equal(t, "not-registered", StateNotRegistered.String())
	assert.Equal(t, "unknown", State(42).String())
}
