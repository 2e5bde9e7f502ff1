// Package actor builds and owns the authenticated backend client of the
// current identity.
package actor

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/identity"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"google.golang.org/grpc"
)

var ErrNoIdentity = errors.New("no identity")

// Dialer constructs a Backend acting as id.
type Dialer func(ctx context.Context, id *identity.Identity) (backend.Backend, error)

// GRPCDialer dials the CloudSphere gRPC endpoint with the identity token.
func GRPCDialer(endpoint string, opts ...grpc.DialOption) Dialer {
	return func(ctx context.Context, id *identity.Identity) (backend.Backend, error) {
		return backend.NewGRPCClient(endpoint, id.Token, opts...)
	}
}

// Factory holds at most one actor. Builds started before a Reset or a newer
// Build are discarded when they finish.
type Factory struct {
	dial   Dialer
	logger logging.Logger

	mu         sync.Mutex
	actor      backend.Backend
	fetching   bool
	generation uint64
}

func NewFactory(dial Dialer, l logging.Logger) *Factory {
	return &Factory{dial: dial, logger: l.With("module", "actor")}
}

// Build replaces the current actor with one bound to id.
func (f *Factory) Build(ctx context.Context, id *identity.Identity) (backend.Backend, error) {
	if id == nil {
		return nil, ErrNoIdentity
	}

	f.mu.Lock()
	f.generation++
	gen := f.generation
	old := f.actor
	f.actor = nil
	f.fetching = true
	f.mu.Unlock()

	f.closeActor(ctx, old)

	b, err := f.dial(ctx, id)

	f.mu.Lock()
	if gen != f.generation {
		f.mu.Unlock()
		if err == nil {
			f.closeActor(ctx, b)
		}
		return nil, backend.ErrActorNotReady
	}
	f.fetching = false
	if err == nil {
		f.actor = b
	}
	f.mu.Unlock()

	if err != nil {
		f.logger.Error(ctx, "build actor failed", "principal", id.Principal, "error", err)
		return nil, err
	}
	f.logger.Debug(ctx, "actor ready", "principal", id.Principal)
	return b, nil
}

// Actor returns the ready actor or ErrActorNotReady.
func (f *Factory) Actor() (backend.Backend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetching || f.actor == nil {
		return nil, backend.ErrActorNotReady
	}
	return f.actor, nil
}

func (f *Factory) IsFetching() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetching
}

// Ready reports whether Actor would succeed.
func (f *Factory) Ready() bool {
	_, err := f.Actor()
	return err == nil
}

// MarkFetching flags an identity change in progress; Actor fails until the
// next Build or Reset completes.
func (f *Factory) MarkFetching() {
	f.mu.Lock()
	f.fetching = true
	f.mu.Unlock()
}

// Reset closes and drops the current actor and cancels in-flight builds.
func (f *Factory) Reset(ctx context.Context) {
	f.mu.Lock()
	f.generation++
	old := f.actor
	f.actor = nil
	f.fetching = false
	f.mu.Unlock()

	f.closeActor(ctx, old)
}

func (f *Factory) closeActor(ctx context.Context, b backend.Backend) {
	if b == nil {
		return
	}
	if err := b.Close(); err != nil {
		f.logger.Warn(ctx, "close actor failed", "error", err)
	}
}
