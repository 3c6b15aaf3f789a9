package domain

// Store is a geolocatable visit target referenced by routes.
// It is an immutable snapshot from the engine's perspective: ownership and
// attributes are maintained by the surrounding system, the engine only reads
// identity, coordinates and display name.
//
// Latitude/Longitude are pointers because a store may not be geocoded yet.
// Sequencing and metrics treat a stop with either coordinate missing as
// unlocated (zero-distance legs), not as an error.
type Store struct {
	ID             int64
	DisplayName    string
	City           string
	Latitude       *float64
	Longitude      *float64
	OwnerUserID    *int64
	SubOwnerUserID *int64
}

// HasCoordinates reports whether both coordinates are present.
func (s Store) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}
