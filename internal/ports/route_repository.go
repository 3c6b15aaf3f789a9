package ports

import (
	"context"

	"github.com/google/uuid"

	"visit-route-service/internal/domain"
)

// Port: a boundary for loading and persisting Route aggregates.
//
// The engine's lifecycle operations transform in-memory Route values; this
// port is how callers load and persist them. Mutations go through Update so
// the whole read-modify-replace runs under the route's write lock: two
// concurrent editors each see the other's committed state, never a stale
// copy.
type RouteRepository interface {
	// Create persists a new route with its initial stop list.
	Create(ctx context.Context, route domain.Route) (domain.Route, error)

	// GetByID retrieves a route with its stops in sequence order.
	// Returns domain.ErrNotFound when no such route exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error)

	// ListAccessible returns the routes the user may view, newest first:
	// administrators see everything, everyone else only routes they created
	// or are assigned. Stop lists are not populated.
	ListAccessible(ctx context.Context, user domain.User) ([]domain.Route, error)

	// Update loads the route under its write lock, applies the given
	// transformation to it, and atomically overwrites the route row and its
	// entire stop list. An error from apply aborts the update and is
	// returned unchanged. Returns domain.ErrNotFound when the route does
	// not exist.
	Update(ctx context.Context, id uuid.UUID, apply func(*domain.Route) error) (domain.Route, error)
}
