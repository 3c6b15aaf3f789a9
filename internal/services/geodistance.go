package services

import "math"

const (
	earthRadiusKm = 6371.0

	// Heuristic average door-to-door speed used for travel time estimates.
	// This is not a routing-engine ETA.
	averageSpeedKmh = 55.0
)

// HaversineKm returns the great-circle distance in kilometers between two
// latitude/longitude points on a spherical earth. Pure, symmetric, and zero
// for identical points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// TravelMinutes estimates driving minutes for a distance at the fixed
// average speed. Returns 0 for non-positive distances.
func TravelMinutes(distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	return distanceKm / averageSpeedKmh * 60
}
