package services

import (
	"fmt"
	"time"

	"visit-route-service/internal/domain"
)

// Route lifecycle operations.
//
// These are pure transformations of in-memory Route values: the caller loads
// the route before and persists it after each call, and must make the
// persisted stop-list swap atomic. Two concurrent rebuilds of the same route
// must be serialized by the caller or the loser's comments are silently lost.

// RebuildStops replaces the route's entire stop list with a freshly sequenced
// and metriced one. The store set is ordered by the nearest-neighbor
// sequencer, per-leg figures come from the metrics aggregator, sequence
// numbers are reassigned 1..N, and per-store comments from existingComments
// are re-attached (stores absent from the map get an empty comment). The
// route's aggregate totals are updated to match.
//
// On a validation failure the route is left untouched.
func RebuildStops(route *domain.Route, stores []domain.Store, existingComments map[int64]string) error {
	if len(stores) == 0 {
		return fmt.Errorf("%w: empty stop set", domain.ErrValidation)
	}

	ordered := OrderStops(stores)
	metrics := ComputeRouteMetrics(ordered)

	stops := make([]domain.RouteStop, 0, len(ordered))
	for i, store := range ordered {
		leg := metrics.Legs[i]
		stops = append(stops, domain.RouteStop{
			Sequence:         i + 1,
			StoreID:          store.ID,
			StoreName:        store.DisplayName,
			Comment:          existingComments[store.ID],
			TravelDistanceKm: round2(leg.DistanceKm),
			TravelMinutes:    round1(leg.Minutes),
		})
	}

	route.Stops = stops
	route.TotalDistanceKm = round1(metrics.TotalDistanceKm)
	route.TotalTravelMinutes = round1(metrics.TotalTravelMinutes)
	return nil
}

// UpdateStopComments overwrites comments on stops already present on the
// route. Sequence and travel metrics are untouched; store ids not on the
// route are ignored.
func UpdateStopComments(route *domain.Route, commentsByStoreID map[int64]string) {
	for i := range route.Stops {
		if comment, ok := commentsByStoreID[route.Stops[i].StoreID]; ok {
			route.Stops[i].Comment = comment
		}
	}
}

// Confirm transitions a route from DRAFT to CONFIRMED.
//
// Re-confirming an already confirmed route returns ErrInvalidState (strict
// policy; the operation never re-runs side effects). Only an administrator
// or the route's assignee may confirm.
func Confirm(route *domain.Route, actor domain.User) error {
	if !route.Status.CanTransitionTo(domain.RouteConfirmed) {
		return fmt.Errorf("%w: route is already confirmed", domain.ErrInvalidState)
	}
	if actor.Role != domain.RoleAdmin && actor.ID != route.AssignedUserID {
		return fmt.Errorf("%w: only the assignee or an administrator may confirm a route", domain.ErrPermission)
	}

	route.Status = domain.RouteConfirmed
	return nil
}

// Reassign changes the route's assignee. The actor must be allowed to hand
// routes to the assignee (CanAssignRoute) and must additionally be an
// administrator, a representative, or the route's creator.
func Reassign(route *domain.Route, actor domain.User, assignee domain.User) error {
	if !assignee.Role.IsRepresentative() {
		return fmt.Errorf("%w: routes can only be assigned to a representative", domain.ErrValidation)
	}
	if !CanAssignRoute(actor, assignee) {
		return fmt.Errorf("%w: not allowed to assign routes to user %d", domain.ErrPermission, assignee.ID)
	}
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleRepresentative && actor.ID != route.CreatedByUserID {
		return fmt.Errorf("%w: only the creator may reassign this route", domain.ErrPermission)
	}

	route.AssignedUserID = assignee.ID
	return nil
}

// ParsePlannedDate parses a YYYY-MM-DD planned date. Empty input means no
// planned date; a malformed value is a validation error.
func ParsePlannedDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid planned date %q, want YYYY-MM-DD", domain.ErrValidation, value)
	}
	return &t, nil
}
