package domain

import (
	"time"

	"github.com/google/uuid"
)

// RouteStatus is the route lifecycle state.
type RouteStatus string

const (
	RouteDraft     RouteStatus = "DRAFT"
	RouteConfirmed RouteStatus = "CONFIRMED"
)

// CanTransitionTo encodes the lifecycle transition table.
// DRAFT -> CONFIRMED is the only legal transition; CONFIRMED is terminal
// (administrator overrides happen outside the engine).
func (s RouteStatus) CanTransitionTo(next RouteStatus) bool {
	return s == RouteDraft && next == RouteConfirmed
}

// RouteStop is one position in a route's visitation sequence.
// Stops are owned exclusively by their Route and are replaced as a whole
// batch whenever the stop set is rebuilt; only Comment carries user input
// across rebuilds.
type RouteStop struct {
	// Sequence is the 1-based position within the route, dense and unique.
	Sequence  int
	StoreID   int64
	StoreName string
	Comment   string

	// TravelDistanceKm/TravelMinutes describe the leg immediately preceding
	// this stop. Zero for the first stop and for legs where either endpoint
	// lacks coordinates.
	TravelDistanceKm float64
	TravelMinutes    float64
}

// Route is an ordered itinerary of store visits assigned to one user.
// TotalDistanceKm and TotalTravelMinutes are derived: they are recomputed on
// every stop-list rebuild and always equal the sum of the per-leg figures.
type Route struct {
	ID              uuid.UUID
	Name            string
	Status          RouteStatus
	PlannedDate     *time.Time
	CreatedByUserID int64
	AssignedUserID  int64
	Notes           string

	TotalDistanceKm    float64
	TotalTravelMinutes float64

	// Stops is held by value in sequence order; stores are referenced only
	// by id, never back-linked.
	Stops []RouteStop

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StopStoreIDs returns the store ids of the current stop list in sequence order.
func (r Route) StopStoreIDs() []int64 {
	ids := make([]int64, 0, len(r.Stops))
	for _, s := range r.Stops {
		ids = append(ids, s.StoreID)
	}
	return ids
}

// StopComments returns the current per-store comments, keyed by store id.
// Used to carry user-entered annotations across a stop-list rebuild.
func (r Route) StopComments() map[int64]string {
	comments := make(map[int64]string, len(r.Stops))
	for _, s := range r.Stops {
		if s.Comment != "" {
			comments[s.StoreID] = s.Comment
		}
	}
	return comments
}
