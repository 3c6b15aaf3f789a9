package ports

import (
	"context"

	"visit-route-service/internal/domain"
)

// Port: read-only access to store snapshots maintained by the surrounding
// system. The engine never writes stores.
type StoreRepository interface {
	// ListAccessible returns the stores visible to the user, ordered by
	// display name: administrators see all stores, representatives their
	// owned stores, sub-representatives their sub-owned stores, clients
	// their owned stores.
	ListAccessible(ctx context.Context, user domain.User) ([]domain.Store, error)

	// GetByIDs retrieves the stores for the given ids, in the order the ids
	// were first requested; duplicate ids collapse to one store. The
	// sequencer anchors its tour at the first element, so this ordering is
	// part of the contract. Missing ids are simply absent from the result;
	// callers decide whether that matters.
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Store, error)
}
