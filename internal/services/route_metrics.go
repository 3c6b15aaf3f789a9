package services

import (
	"math"

	"visit-route-service/internal/domain"
)

// Leg holds the travel figures for the segment arriving at one stop.
type Leg struct {
	DistanceKm float64
	Minutes    float64
}

// RouteMetrics aggregates per-leg and total travel figures for an ordered
// stop list. Values are kept at full precision; rounding for display happens
// where the figures are attached to Route and RouteStop records.
type RouteMetrics struct {
	TotalDistanceKm    float64
	TotalTravelMinutes float64

	// Legs has one entry per stop: Legs[i] is the leg arriving at stop i.
	// Legs[0] is always zero (the first stop has no incoming leg), as is any
	// leg where either endpoint lacks coordinates.
	Legs []Leg
}

// ComputeRouteMetrics walks consecutive pairs of the ordered stop list and
// accumulates distance and travel time. Missing coordinates make a leg
// contribute zero; they are a handled case, not an error.
func ComputeRouteMetrics(ordered []domain.Store) RouteMetrics {
	m := RouteMetrics{Legs: make([]Leg, len(ordered))}

	for i := 1; i < len(ordered); i++ {
		prev := ordered[i-1]
		curr := ordered[i]
		if !prev.HasCoordinates() || !curr.HasCoordinates() {
			continue
		}

		distance := HaversineKm(*prev.Latitude, *prev.Longitude, *curr.Latitude, *curr.Longitude)
		minutes := TravelMinutes(distance)

		m.Legs[i] = Leg{DistanceKm: distance, Minutes: minutes}
		m.TotalDistanceKm += distance
		m.TotalTravelMinutes += minutes
	}

	return m
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
