package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/backend/backendtest"
	"github.com/dmitrijs2005/cloudsphere/internal/client/cache"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticActors struct {
	b   backend.Backend
	err error
}

func (s staticActors) Actor() (backend.Backend, error) { return s.b, s.err }

func newRegistrar(fake *backendtest.Fake) (*Registrar, *cache.Cache) {
	c := cache.New(16, time.Minute, nil, logging.Nop())
	c.SetScope("p1")
	return NewRegistrar(staticActors{b: fake}, c, logging.Nop()), c
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{in: "  a@b.co ", want: "a@b.co"},
		{in: "", err: ErrEmailRequired},
		{in: "   ", err: ErrEmailRequired},
		{in: "no-at.example.com", err: ErrInvalidEmail},
		{in: "a@b", err: ErrInvalidEmail},
		{in: "a b@c.d", err: ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidateEmail(tt.in)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistrar_ActorNotReady(t *testing.T) {
	r := NewRegistrar(staticActors{err: backend.ErrActorNotReady}, cache.New(4, time.Minute, nil, logging.Nop()), logging.Nop())

	_, err := r.EnsureRegistered(context.Background(), "a@b.co", ModeLogin)
	require.ErrorIs(t, err, backend.ErrActorNotReady)
	assert.Equal(t, RegistrationIdle, r.State())
}

func TestRegistrar_EmailValidatedBeforeNetwork(t *testing.T) {
	fake := &backendtest.Fake{}
	r, _ := newRegistrar(fake)

	_, err := r.EnsureRegistered(context.Background(), "", ModeSignUp)
	require.ErrorIs(t, err, ErrEmailRequired)
	_, err = r.EnsureRegistered(context.Background(), "bad", ModeSignUp)
	require.ErrorIs(t, err, ErrInvalidEmail)
	assert.Zero(t, fake.TotalCalls())
}

func TestRegistrar_SuccessIsTerminalAndCached(t *testing.T) {
	fake := &backendtest.Fake{RegisterUserFn: func(ctx context.Context, email string) (*backend.UserProfile, error) {
		return &backend.UserProfile{Principal: "p1", Email: email}, nil
	}}
	r, c := newRegistrar(fake)

	o, err := r.EnsureRegistered(context.Background(), "a@b.co", ModeSignUp)
	require.NoError(t, err)
	assert.Equal(t, RegistrationRegistered, o.State)
	assert.Equal(t, "a@b.co", o.Profile.Email)

	v, ok := c.Peek(cache.KeyUserProfile)
	require.True(t, ok)
	assert.Equal(t, o.Profile, v)

	again, err := r.EnsureRegistered(context.Background(), "a@b.co", ModeLogin)
	require.NoError(t, err)
	assert.Same(t, o, again)
	assert.Equal(t, 1, fake.Calls("RegisterUser"))
}

func TestRegistrar_AlreadyRegisteredIsSuccess(t *testing.T) {
	fake := &backendtest.Fake{RegisterUserFn: func(ctx context.Context, email string) (*backend.UserProfile, error) {
		return nil, backend.ErrAlreadyRegistered
	}}
	r, c := newRegistrar(fake)
	c.Put(cache.KeyUserProfile, "stale")

	o, err := r.EnsureRegistered(context.Background(), "a@b.co", ModeSignUp)
	require.NoError(t, err)
	assert.Equal(t, RegistrationAlreadyRegistered, o.State)
	assert.Nil(t, o.Profile)

	_, ok := c.Peek(cache.KeyUserProfile)
	assert.False(t, ok, "profile is refetched after registration")
	assert.True(t, r.State().Terminal())
}

func TestRegistrar_ConcurrentCallsShareOneBackendCall(t *testing.T) {
	release := make(chan struct{})
	fake := &backendtest.Fake{RegisterUserFn: func(ctx context.Context, email string) (*backend.UserProfile, error) {
		<-release
		return &backend.UserProfile{Email: email}, nil
	}}
	r, _ := newRegistrar(fake)

	const n = 8
	var wg sync.WaitGroup
	outcomes := make([]*Outcome, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o, err := r.EnsureRegistered(context.Background(), "a@b.co", ModeLogin)
			require.NoError(t, err)
			outcomes[i] = o
		}(i)
	}

	require.Eventually(t, func() bool { return fake.Calls("RegisterUser") == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, fake.Calls("RegisterUser"))
	for _, o := range outcomes {
		assert.Same(t, outcomes[0], o)
	}
}

func TestRegistrar_NotRegisteredReleasesGuard(t *testing.T) {
	fake := &backendtest.Fake{RegisterUserFn: func(ctx context.Context, email string) (*backend.UserProfile, error) {
		return nil, backend.ErrNotRegistered
	}}
	r, _ := newRegistrar(fake)

	_, err := r.EnsureRegistered(context.Background(), "a@b.co", ModeLogin)
	require.ErrorIs(t, err, backend.ErrNotRegistered)
	assert.Equal(t, RegistrationNotRegistered, r.State())

	_, err = r.EnsureRegistered(context.Background(), "a@b.co", ModeLogin)
	require.ErrorIs(t, err, backend.ErrNotRegistered)
	assert.Equal(t, 2, fake.Calls("RegisterUser"), "no terminal state after not-registered")
}

func TestRegistrar_OtherErrorsFailAndRelease(t *testing.T) {
	calls := 0
	fake := &backendtest.Fake{RegisterUserFn: func(ctx context.Context, email string) (*backend.UserProfile, error) {
		calls++
		if calls == 1 {
			return nil, backend.ErrUnavailable
		}
		return &backend.UserProfile{Email: email}, nil
	}}
	r, _ := newRegistrar(fake)

	_, err := r.EnsureRegistered(context.Background(), "a@b.co", ModeLogin)
	require.ErrorIs(t, err, backend.ErrUnavailable)
	assert.Equal(t, RegistrationFailed, r.State())

	o, err := r.EnsureRegistered(context.Background(), "a@b.co", ModeLogin)
	require.NoError(t, err)
	assert.Equal(t, RegistrationRegistered, o.State)
}

func TestRegistrar_NotRegisteredInSignUpIsFailure(t *testing.T) {
	fake := &backendtest.Fake{RegisterUserFn: func(ctx context.Context, email string) (*backend.UserProfile, error) {
		return nil, backend.ErrNotRegistered
	}}
	r, _ := newRegistrar(fake)

	_, err := r.EnsureRegistered(context.Background(), "a@b.co", ModeSignUp)
	require.Error(t, err)
	assert.Equal(t, RegistrationFailed, r.State())
}

func TestRegistrar_CallerCancelStillRecordsResult(t *testing.T) {
	release := make(chan struct{})
	fake := &backendtest.Fake{RegisterUserFn: func(ctx context.Context, email string) (*backend.UserProfile, error) {
		<-release
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &backend.UserProfile{Email: email}, nil
	}}
	r, c := newRegistrar(fake)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := r.EnsureRegistered(ctx, "a@b.co", ModeLogin)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return fake.Calls("RegisterUser") == 1 }, time.Second, time.Millisecond)
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	require.Eventually(t, func() bool { return r.State() == RegistrationRegistered }, time.Second, time.Millisecond)
	_, ok := c.Peek(cache.KeyUserProfile)
	assert.True(t, ok)
}

func TestRegistrar_MarkRegisteredAndReset(t *testing.T) {
	fake := &backendtest.Fake{}
	r, _ := newRegistrar(fake)

	r.MarkRegistered(&backend.UserProfile{Principal: "p1"})
	o, err := r.EnsureRegistered(context.Background(), "a@b.co", ModeLogin)
	require.NoError(t, err)
	assert.Equal(t, RegistrationAlreadyRegistered, o.State)
	assert.Zero(t, fake.Calls("RegisterUser"))

	r.Reset()
	assert.Equal(t, RegistrationIdle, r.State())
	_, err = r.EnsureRegistered(context.Background(), "a@b.co", ModeLogin)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("RegisterUser"))
}

func TestRoleResolver_ResolvesOnce(t *testing.T) {
	fake := &backendtest.Fake{GetCallerUserRoleFn: func(ctx context.Context) (backend.Role, error) {
		return backend.RoleAdmin, nil
	}}
	r := NewRoleResolver(staticActors{b: fake}, logging.Nop())

	assert.False(t, r.IsAdmin())
	assert.Equal(t, backend.RoleAdmin, r.Resolve(context.Background()))
	assert.Equal(t, backend.RoleAdmin, r.Resolve(context.Background()))
	assert.True(t, r.IsAdmin())
	assert.Equal(t, 1, fake.Calls("GetCallerUserRole"))
}

func TestRoleResolver_FailureIsGuestAndRetried(t *testing.T) {
	fail := true
	fake := &backendtest.Fake{GetCallerUserRoleFn: func(ctx context.Context) (backend.Role, error) {
		if fail {
			return backend.RoleGuest, errors.New("boom")
		}
		return backend.RoleUser, nil
	}}
	r := NewRoleResolver(staticActors{b: fake}, logging.Nop())

	assert.Equal(t, backend.RoleGuest, r.Resolve(context.Background()))
	_, ok := r.Cached()
	assert.False(t, ok)

	fail = false
	assert.Equal(t, backend.RoleUser, r.Resolve(context.Background()))
	assert.Equal(t, 2, fake.Calls("GetCallerUserRole"))
}

func TestRoleResolver_NotReadyIsGuest(t *testing.T) {
	r := NewRoleResolver(staticActors{err: backend.ErrActorNotReady}, logging.Nop())
	assert.Equal(t, backend.RoleGuest, r.Resolve(context.Background()))
	assert.False(t, r.IsAdmin())
}
