package identity

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cloudsphere/internal/logging"
)

// Observer is called after every identity change, with nil on logout.
type Observer func(*Identity)

type Lifecycle struct {
	provider Provider
	logger   logging.Logger

	mu           sync.Mutex
	identity     *Identity
	initializing bool
	loggingIn    bool
	nextID       int
	observers    map[int]Observer
}

// NewLifecycle returns a Lifecycle that reports Initializing until Init
// returns.
func NewLifecycle(p Provider, l logging.Logger) *Lifecycle {
	return &Lifecycle{
		provider:     p,
		logger:       l.With("module", "identity"),
		initializing: true,
		observers:    make(map[int]Observer),
	}
}

// Init restores a previous session if the provider has one. A restore error
// is logged and leaves the lifecycle signed out.
func (l *Lifecycle) Init(ctx context.Context) {
	id, err := l.provider.Restore(ctx)
	if err != nil {
		l.logger.Warn(ctx, "restore identity failed", "error", err)
		id = nil
	}

	l.mu.Lock()
	l.initializing = false
	l.identity = id
	l.mu.Unlock()

	if id != nil {
		l.logger.Info(ctx, "identity restored", "principal", id.Principal)
		l.notify(id)
	}
}

// Login asks the provider for a fresh identity. There is no retry; on failure
// the lifecycle stays signed out.
func (l *Lifecycle) Login(ctx context.Context) (*Identity, error) {
	l.mu.Lock()
	if l.initializing {
		l.mu.Unlock()
		return nil, ErrInitializing
	}
	if l.loggingIn {
		l.mu.Unlock()
		return nil, ErrLoginInProgress
	}
	l.loggingIn = true
	l.mu.Unlock()

	id, err := l.provider.Authenticate(ctx)

	l.mu.Lock()
	l.loggingIn = false
	if err == nil {
		l.identity = id
	}
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn(ctx, "login failed", "error", err)
		return nil, err
	}

	l.logger.Info(ctx, "logged in", "principal", id.Principal)
	l.notify(id)
	return id, nil
}

// Logout clears the identity before the provider forgets it, so observers
// see the sign-out even if Forget fails.
func (l *Lifecycle) Logout(ctx context.Context) error {
	l.mu.Lock()
	had := l.identity != nil
	l.identity = nil
	l.mu.Unlock()

	if had {
		l.notify(nil)
	}
	return l.provider.Forget(ctx)
}

func (l *Lifecycle) Identity() *Identity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.identity
}

func (l *Lifecycle) Initializing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initializing
}

func (l *Lifecycle) LoggingIn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loggingIn
}

// Subscribe registers fn for identity changes and returns a function that
// removes it.
func (l *Lifecycle) Subscribe(fn Observer) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.observers[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.observers, id)
		l.mu.Unlock()
	}
}

func (l *Lifecycle) notify(id *Identity) {
	l.mu.Lock()
	fns := make([]Observer, 0, len(l.observers))
	for _, fn := range l.observers {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}
