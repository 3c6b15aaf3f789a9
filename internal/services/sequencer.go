package services

import "visit-route-service/internal/domain"

// OrderStops sequences stores using a greedy nearest-neighbor heuristic.
//
// The algorithm minimizes immediate travel distance at each step.
// It does not attempt global route optimization (no 2-opt, no TSP solver).
// The design prioritizes determinism and simplicity over optimality: given a
// fixed input order the output is fully determined, and the O(N^2) cost is
// fine for the tens of stops an interactive planner works with.
//
// Stores missing either coordinate cannot be sequenced; they keep their
// original relative order and are appended after all located stores. When no
// store is located the input order is returned unchanged.
func OrderStops(stops []domain.Store) []domain.Store {
	located := make([]domain.Store, 0, len(stops))
	unlocated := make([]domain.Store, 0)
	for _, s := range stops {
		if s.HasCoordinates() {
			located = append(located, s)
		} else {
			unlocated = append(unlocated, s)
		}
	}

	if len(located) == 0 {
		out := make([]domain.Store, len(stops))
		copy(out, stops)
		return out
	}

	ordered := make([]domain.Store, 0, len(stops))
	current := located[0]
	ordered = append(ordered, current)
	remaining := located[1:]

	for len(remaining) > 0 {
		// Strict < keeps the first minimum encountered, so ties resolve to
		// the earliest remaining input position.
		best := 0
		bestDist := HaversineKm(*current.Latitude, *current.Longitude, *remaining[0].Latitude, *remaining[0].Longitude)
		for i := 1; i < len(remaining); i++ {
			d := HaversineKm(*current.Latitude, *current.Longitude, *remaining[i].Latitude, *remaining[i].Longitude)
			if d < bestDist {
				best = i
				bestDist = d
			}
		}

		current = remaining[best]
		ordered = append(ordered, current)
		// Order-preserving removal so later ties still break by input position.
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return append(ordered, unlocated...)
}
