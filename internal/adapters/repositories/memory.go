package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/services"
)

// In-memory implementations of the repository ports, used by handler tests.
// Route reads return deep copies so callers can never mutate stored state
// through aliasing, which also means a failed operation observably leaves
// the stored route untouched.

type MemoryRouteRepository struct {
	mu     sync.Mutex
	routes map[uuid.UUID]domain.Route
}

func NewMemoryRouteRepository() *MemoryRouteRepository {
	return &MemoryRouteRepository{routes: map[uuid.UUID]domain.Route{}}
}

func (m *MemoryRouteRepository) Create(ctx context.Context, route domain.Route) (domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}
	now := time.Now().UTC()
	route.CreatedAt = now
	route.UpdatedAt = now
	m.routes[route.ID] = cloneRoute(route)
	return cloneRoute(route), nil
}

func (m *MemoryRouteRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	route, ok := m.routes[id]
	if !ok {
		return domain.Route{}, fmt.Errorf("get route %s: %w", id, domain.ErrNotFound)
	}
	return cloneRoute(route), nil
}

func (m *MemoryRouteRepository) ListAccessible(ctx context.Context, user domain.User) ([]domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	routes := make([]domain.Route, 0, len(m.routes))
	for _, route := range m.routes {
		// Same visibility rule the Postgres repository pushes into SQL.
		if !services.CanViewRoute(user, route) {
			continue
		}
		listed := cloneRoute(route)
		listed.Stops = nil
		routes = append(routes, listed)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].CreatedAt.After(routes[j].CreatedAt) })
	return routes, nil
}

// Update applies the transformation to the stored route under the
// repository mutex, so an editor always transforms the latest committed
// state, matching the Postgres adapter's row lock.
func (m *MemoryRouteRepository) Update(ctx context.Context, id uuid.UUID, apply func(*domain.Route) error) (domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.routes[id]
	if !ok {
		return domain.Route{}, fmt.Errorf("update route %s: %w", id, domain.ErrNotFound)
	}

	route := cloneRoute(stored)
	if err := apply(&route); err != nil {
		return domain.Route{}, err
	}
	route.UpdatedAt = time.Now().UTC()
	m.routes[id] = cloneRoute(route)
	return cloneRoute(route), nil
}

type MemoryStoreRepository struct {
	mu     sync.Mutex
	stores map[int64]domain.Store
}

func NewMemoryStoreRepository(stores ...domain.Store) *MemoryStoreRepository {
	m := &MemoryStoreRepository{stores: map[int64]domain.Store{}}
	for _, s := range stores {
		m.stores[s.ID] = s
	}
	return m
}

func (m *MemoryStoreRepository) ListAccessible(ctx context.Context, user domain.User) ([]domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stores := make([]domain.Store, 0, len(m.stores))
	for _, store := range m.stores {
		if !storeVisible(user, store) {
			continue
		}
		stores = append(stores, store)
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].DisplayName < stores[j].DisplayName })
	return stores, nil
}

func (m *MemoryStoreRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Requested-id order, duplicates collapsed, same as the Postgres adapter.
	stores := make([]domain.Store, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if store, ok := m.stores[id]; ok {
			stores = append(stores, store)
		}
	}
	return stores, nil
}

type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[int64]domain.User
}

func NewMemoryUserRepository(users ...domain.User) *MemoryUserRepository {
	m := &MemoryUserRepository{users: map[int64]domain.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MemoryUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("get user %d: %w", id, domain.ErrNotFound)
	}
	return user, nil
}

// Same visibility rule the Postgres store repository pushes into SQL.
func storeVisible(user domain.User, store domain.Store) bool {
	switch user.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSubRepresentative:
		return store.SubOwnerUserID != nil && *store.SubOwnerUserID == user.ID
	default:
		return store.OwnerUserID != nil && *store.OwnerUserID == user.ID
	}
}

func cloneRoute(route domain.Route) domain.Route {
	out := route
	out.Stops = make([]domain.RouteStop, len(route.Stops))
	copy(out.Stops, route.Stops)
	if route.PlannedDate != nil {
		d := *route.PlannedDate
		out.PlannedDate = &d
	}
	return out
}
