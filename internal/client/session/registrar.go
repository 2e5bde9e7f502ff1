package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/cache"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"golang.org/x/sync/singleflight"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrInvalidEmail  = errors.New("invalid email address")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail trims email and checks its shape.
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Mode tells the registrar which screen asked for registration.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignUp
)

func (m Mode) String() string {
	if m == ModeSignUp {
		return "signup"
	}
	return "login"
}

type RegistrationState int

const (
	RegistrationIdle RegistrationState = iota
	RegistrationInProgress
	RegistrationRegistered
	RegistrationAlreadyRegistered
	RegistrationNotRegistered
	RegistrationFailed
)

func (s RegistrationState) String() string {
	switch s {
	case RegistrationIdle:
		return "idle"
	case RegistrationInProgress:
		return "registering"
	case RegistrationRegistered:
		return "registered"
	case RegistrationAlreadyRegistered:
		return "already-registered"
	case RegistrationNotRegistered:
		return "not-registered"
	case RegistrationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the account is known to exist.
func (s RegistrationState) Terminal() bool {
	return s == RegistrationRegistered || s == RegistrationAlreadyRegistered
}

// Outcome is the terminal result of a registration. Profile is nil when the
// backend only reported that the account already existed.
type Outcome struct {
	State   RegistrationState
	Profile *backend.UserProfile
}

// ActorSource hands out the session's backend actor.
type ActorSource interface {
	Actor() (backend.Backend, error)
}

// Registrar makes sure the session's principal has an account. It calls the
// backend at most once per session for a successful registration; a
// not-registered or failed attempt releases the guard so the user can retry.
type Registrar struct {
	actors ActorSource
	cache  *cache.Cache
	logger logging.Logger
	group  singleflight.Group

	mu      sync.Mutex
	state   RegistrationState
	outcome *Outcome
}

func NewRegistrar(actors ActorSource, c *cache.Cache, l logging.Logger) *Registrar {
	return &Registrar{actors: actors, cache: c, logger: l.With("module", "registrar")}
}

func (r *Registrar) State() RegistrationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// EnsureRegistered registers the caller under email unless the session
// already did. Concurrent calls share one backend call. The backend call is
// detached from ctx: if ctx ends first the call completes and its result is
// still recorded and cached.
func (r *Registrar) EnsureRegistered(ctx context.Context, email string, mode Mode) (*Outcome, error) {
	if o := r.terminal(); o != nil {
		return o, nil
	}

	act, err := r.actors.Actor()
	if err != nil {
		return nil, err
	}

	email, err = ValidateEmail(email)
	if err != nil {
		return nil, err
	}

	ch := r.group.DoChan("register", func() (any, error) {
		return r.register(context.WithoutCancel(ctx), act, email, mode)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Outcome), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Registrar) register(ctx context.Context, act backend.Backend, email string, mode Mode) (*Outcome, error) {
	r.mu.Lock()
	if r.outcome != nil {
		o := r.outcome
		r.mu.Unlock()
		return o, nil
	}
	r.state = RegistrationInProgress
	r.mu.Unlock()

	log := r.logger.With("mode", mode.String())
	log.Info(ctx, "registering account", "email", email)

	profile, err := act.RegisterUser(ctx, email)

	var o *Outcome
	switch {
	case err == nil:
		o = &Outcome{State: RegistrationRegistered, Profile: profile}
	case errors.Is(err, backend.ErrAlreadyRegistered):
		o = &Outcome{State: RegistrationAlreadyRegistered}
	case errors.Is(err, backend.ErrNotRegistered) && mode == ModeLogin:
		r.release(RegistrationNotRegistered)
		log.Warn(ctx, "account not found")
		return nil, backend.ErrNotRegistered
	default:
		r.release(RegistrationFailed)
		log.Error(ctx, "registration failed", "error", err)
		return nil, fmt.Errorf("register account: %w", err)
	}

	r.cache.Apply(ctx, cache.MutationRegister)
	if o.Profile != nil {
		r.cache.Put(cache.KeyUserProfile, o.Profile)
	}

	r.mu.Lock()
	r.state = o.State
	r.outcome = o
	r.mu.Unlock()

	log.Info(ctx, "account ready", "state", o.State.String())
	return o, nil
}

func (r *Registrar) terminal() *Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome
}

func (r *Registrar) release(s RegistrationState) {
	r.mu.Lock()
	r.state = s
	r.outcome = nil
	r.mu.Unlock()
}

// MarkRegistered records an account found by other means, such as a profile
// read after restoring a session.
func (r *Registrar) MarkRegistered(p *backend.UserProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcome == nil {
		r.outcome = &Outcome{State: RegistrationAlreadyRegistered, Profile: p}
		r.state = RegistrationAlreadyRegistered
	}
}

// Reset returns the registrar to idle.
func (r *Registrar) Reset() {
	r.release(RegistrationIdle)
}
