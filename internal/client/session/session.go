// Package session wires identity, actor, registration and role into one
// explicit per-login Session, driven by the Manager state machine.
package session

import (
	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/cache"
	"github.com/dmitrijs2005/cloudsphere/internal/client/identity"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
)

// Session is created on login and dropped on logout. It is never persisted.
type Session struct {
	Identity  *identity.Identity
	Registrar *Registrar
	Roles     *RoleResolver

	actors ActorSource
}

func newSession(id *identity.Identity, actors ActorSource, c *cache.Cache, l logging.Logger) *Session {
	l = l.With("principal", id.Principal)
	return &Session{
		Identity:  id,
		Registrar: NewRegistrar(actors, c, l),
		Roles:     NewRoleResolver(actors, l),
		actors:    actors,
	}
}

func (s *Session) Principal() string {
	return s.Identity.Principal
}

// Actor returns the session's backend or backend.ErrActorNotReady.
func (s *Session) Actor() (backend.Backend, error) {
	return s.actors.Actor()
}

// IsAdmin reports the resolved role; it is for display only.
func (s *Session) IsAdmin() bool {
	return s.Roles.IsAdmin()
}
