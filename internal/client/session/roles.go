package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"golang.org/x/sync/singleflight"
)

// RoleResolver looks the caller's role up once per session. The role only
// gates what the client shows; the backend enforces every capability.
type RoleResolver struct {
	actors ActorSource
	logger logging.Logger
	group  singleflight.Group

	mu       sync.Mutex
	role     backend.Role
	resolved bool
}

func NewRoleResolver(actors ActorSource, l logging.Logger) *RoleResolver {
	return &RoleResolver{actors: actors, logger: l.With("module", "roles"), role: backend.RoleGuest}
}

// Resolve returns the caller's role. Any failure yields RoleGuest and is not
// cached, so a later call asks again.
func (r *RoleResolver) Resolve(ctx context.Context) backend.Role {
	if role, ok := r.Cached(); ok {
		return role
	}

	act, err := r.actors.Actor()
	if err != nil {
		return backend.RoleGuest
	}

	ch := r.group.DoChan("role", func() (any, error) {
		if role, ok := r.Cached(); ok {
			return role, nil
		}
		detached := context.WithoutCancel(ctx)
		role, err := act.GetCallerUserRole(detached)
		if err != nil {
			r.logger.Warn(detached, "role lookup failed, using guest", "error", err)
			return backend.RoleGuest, err
		}
		r.mu.Lock()
		r.role = role
		r.resolved = true
		r.mu.Unlock()
		return role, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return backend.RoleGuest
		}
		return res.Val.(backend.Role)
	case <-ctx.Done():
		return backend.RoleGuest
	}
}

// Cached returns the resolved role, if any.
func (r *RoleResolver) Cached() (backend.Role, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.role, r.resolved
}

// IsAdmin reports whether the resolved role is admin. Unresolved is not.
func (r *RoleResolver) IsAdmin() bool {
	role, ok := r.Cached()
	return ok && role.IsAdmin()
}
