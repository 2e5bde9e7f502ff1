package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/cloudsphere/internal/client/actor"
	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/cache"
	"github.com/dmitrijs2005/cloudsphere/internal/client/identity"
	"github.com/dmitrijs2005/cloudsphere/internal/client/prefs"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
)

var (
	ErrNoSession     = errors.New("no active session")
	ErrSessionClosed = errors.New("session closed during login")
)

type State int

const (
	StateSignedOut State = iota
	StateInitializing
	StateBuildingActor
	StateRegistering
	StateResolvingRole
	StateReady
	StateNotRegistered
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSignedOut:
		return "signed-out"
	case StateInitializing:
		return "initializing"
	case StateBuildingActor:
		return "building-actor"
	case StateRegistering:
		return "registering"
	case StateResolvingRole:
		return "resolving-role"
	case StateReady:
		return "ready"
	case StateNotRegistered:
		return "not-registered"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Manager moves a user through
//
//	initializing -> signed-out -> building-actor -> registering
//	  -> resolving-role -> ready
//
// with not-registered and failed as resting states a new Login leaves.
type Manager struct {
	lifecycle *identity.Lifecycle
	factory   *actor.Factory
	cache     *cache.Cache
	prefs     *prefs.Preferences
	logger    logging.Logger

	mu          sync.Mutex
	state       State
	session     *Session
	lastErr     error
	unsubscribe func()
}

func NewManager(lc *identity.Lifecycle, f *actor.Factory, c *cache.Cache, p *prefs.Preferences, l logging.Logger) *Manager {
	m := &Manager{
		lifecycle: lc,
		factory:   f,
		cache:     c,
		prefs:     p,
		logger:    l.With("module", "session"),
		state:     StateSignedOut,
	}
	if lc.Initializing() {
		m.state = StateInitializing
	}
	return m
}

// Start restores a previous identity, if any, and resumes its session.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.unsubscribe == nil {
		m.unsubscribe = m.lifecycle.Subscribe(m.onIdentity)
	}
	m.mu.Unlock()

	m.lifecycle.Init(ctx)

	id := m.lifecycle.Identity()
	if id == nil {
		m.setState(StateSignedOut, nil)
		return nil
	}
	return m.resume(ctx, id)
}

// Stop detaches the manager from the identity lifecycle.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Manager) onIdentity(id *identity.Identity) {
	ctx := context.Background()
	if id == nil {
		m.teardown(ctx)
		return
	}

	m.mu.Lock()
	changed := m.session != nil && m.session.Principal() != id.Principal
	m.mu.Unlock()
	if changed {
		m.teardown(ctx)
	}
	m.factory.MarkFetching()
}

// Login authenticates if needed and brings the session to ready, registering
// the account under email on the way.
func (m *Manager) Login(ctx context.Context, email string, remember bool) (*Session, error) {
	return m.enter(ctx, email, remember, ModeLogin)
}

// SignUp is Login for a user creating an account.
func (m *Manager) SignUp(ctx context.Context, email string) (*Session, error) {
	return m.enter(ctx, email, false, ModeSignUp)
}

func (m *Manager) enter(ctx context.Context, email string, remember bool, mode Mode) (*Session, error) {
	email, err := ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	if m.lifecycle.Initializing() {
		return nil, identity.ErrInitializing
	}

	if err := m.prefs.SaveEmail(ctx, email); err != nil {
		m.logger.Warn(ctx, "save email failed", "error", err)
	}

	id := m.lifecycle.Identity()
	if id == nil {
		id, err = m.lifecycle.Login(ctx)
		if err != nil {
			m.setState(StateSignedOut, err)
			return nil, err
		}
	}

	sess, err := m.establish(ctx, id)
	if err != nil {
		return nil, err
	}

	if mode == ModeLogin {
		if err := m.prefs.SaveLogin(ctx, email, remember); err != nil {
			m.logger.Warn(ctx, "save login preferences failed", "error", err)
		}
	}

	return m.register(ctx, sess, email, mode)
}

// establish builds the actor for id and installs a fresh Session, reusing the
// current one when it already belongs to id.
func (m *Manager) establish(ctx context.Context, id *identity.Identity) (*Session, error) {
	m.mu.Lock()
	if s := m.session; s != nil && s.Principal() == id.Principal && m.factory.Ready() {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	m.setState(StateBuildingActor, nil)
	m.cache.SetScope(id.Principal)

	if _, err := m.factory.Build(ctx, id); err != nil {
		m.setState(StateFailed, err)
		return nil, err
	}

	sess := newSession(id, m.factory, m.cache, m.logger)
	m.mu.Lock()
	m.session = sess
	m.mu.Unlock()
	return sess, nil
}

func (m *Manager) register(ctx context.Context, sess *Session, email string, mode Mode) (*Session, error) {
	m.setState(StateRegistering, nil)

	outcome, err := sess.Registrar.EnsureRegistered(ctx, email, mode)
	if !m.current(sess) {
		return nil, ErrSessionClosed
	}
	if errors.Is(err, backend.ErrNotRegistered) && mode == ModeLogin {
		m.setState(StateNotRegistered, err)
		return nil, err
	}
	if err != nil {
		m.setState(StateFailed, err)
		return nil, err
	}

	if outcome.Profile != nil && outcome.Profile.Email != "" {
		if err := m.prefs.SaveEmail(ctx, outcome.Profile.Email); err != nil {
			m.logger.Warn(ctx, "save email failed", "error", err)
		}
	}

	return m.finish(ctx, sess)
}

func (m *Manager) finish(ctx context.Context, sess *Session) (*Session, error) {
	m.setState(StateResolvingRole, nil)
	role := sess.Roles.Resolve(ctx)
	if !m.current(sess) {
		return nil, ErrSessionClosed
	}

	m.setState(StateReady, nil)
	m.logger.Info(ctx, "session ready", "principal", sess.Principal(), "role", string(role))
	return sess, nil
}

// resume continues a restored identity: an existing account goes straight to
// ready, a missing one is auto-registered with the remembered email.
func (m *Manager) resume(ctx context.Context, id *identity.Identity) error {
	sess, err := m.establish(ctx, id)
	if err != nil {
		return err
	}

	if _, err := m.AutoRegister(ctx); err != nil {
		return err
	}
	_, err = m.finish(ctx, sess)
	return err
}

// AutoRegister registers the current session when the backend has no
// profile for it and an email is remembered. It reports whether a
// registration call was made.
func (m *Manager) AutoRegister(ctx context.Context) (bool, error) {
	m.mu.Lock()
	sess := m.session
	m.mu.Unlock()
	if sess == nil {
		return false, ErrNoSession
	}
	if sess.Registrar.State().Terminal() {
		return false, nil
	}

	profile, err := cache.Fetch(ctx, m.cache, cache.KeyUserProfile, func(ctx context.Context) (*backend.UserProfile, error) {
		act, err := sess.Actor()
		if err != nil {
			return nil, err
		}
		return act.GetCallerUserProfile(ctx)
	})
	if err != nil {
		m.setState(StateFailed, err)
		return false, err
	}
	if profile != nil {
		sess.Registrar.MarkRegistered(profile)
		return false, nil
	}

	email, err := m.prefs.RememberedEmail(ctx)
	if err != nil || email == "" {
		m.setState(StateNotRegistered, backend.ErrNotRegistered)
		return false, backend.ErrNotRegistered
	}

	m.setState(StateRegistering, nil)
	if _, err := sess.Registrar.EnsureRegistered(ctx, email, ModeLogin); err != nil {
		if errors.Is(err, backend.ErrNotRegistered) {
			m.setState(StateNotRegistered, err)
		} else {
			m.setState(StateFailed, err)
		}
		return true, err
	}
	return true, nil
}

// Logout tears the session down and signs the identity out.
func (m *Manager) Logout(ctx context.Context) error {
	m.teardown(ctx)
	return m.lifecycle.Logout(ctx)
}

func (m *Manager) teardown(ctx context.Context) {
	m.mu.Lock()
	had := m.session != nil
	m.session = nil
	m.state = StateSignedOut
	m.lastErr = nil
	m.mu.Unlock()

	m.factory.Reset(ctx)
	m.cache.Purge()
	if had {
		m.logger.Info(ctx, "session closed")
	}
}

// Session returns the ready session or ErrNoSession.
func (m *Manager) Session() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateReady || m.session == nil {
		return nil, ErrNoSession
	}
	return m.session, nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastError is the error that put the manager in its current state, if any.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Manager) current(sess *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session == sess
}

func (m *Manager) setState(s State, err error) {
	m.mu.Lock()
	prev := m.state
	m.state = s
	m.lastErr = err
	m.mu.Unlock()

	if prev != s {
		m.logger.Debug(context.Background(), "session state", "from", prev.String(), "to", s.String())
	}
}
