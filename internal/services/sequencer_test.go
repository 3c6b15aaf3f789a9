package services

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-service/internal/domain"
)

func locatedStore(id int64, name string, lat, lon float64) domain.Store {
	return domain.Store{ID: id, DisplayName: name, Latitude: &lat, Longitude: &lon}
}

func unlocatedStore(id int64, name string) domain.Store {
	return domain.Store{ID: id, DisplayName: name}
}

var (
	montreal = locatedStore(1, "Montreal", 45.50, -73.57)
	ottawa   = locatedStore(2, "Ottawa", 45.42, -75.70)
	toronto  = locatedStore(3, "Toronto", 43.65, -79.38)
)

func storeIDs(stores []domain.Store) []int64 {
	ids := make([]int64, 0, len(stores))
	for _, s := range stores {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestOrderStops_IsPermutation(t *testing.T) {
	input := []domain.Store{toronto, montreal, unlocatedStore(7, "No coords"), ottawa}

	out := OrderStops(input)

	require.Len(t, out, len(input))
	got := storeIDs(out)
	want := storeIDs(input)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	assert.Equal(t, want, got)
}

func TestOrderStops_StartsAtFirstInputStop(t *testing.T) {
	out := OrderStops([]domain.Store{montreal, toronto, ottawa})

	require.NotEmpty(t, out)
	assert.Equal(t, montreal.ID, out[0].ID)
}

func TestOrderStops_NearestNeighborOrder(t *testing.T) {
	// Ottawa is nearer to Montreal than Toronto, regardless of input order
	// after the first stop.
	out := OrderStops([]domain.Store{montreal, toronto, ottawa})

	assert.Equal(t, []int64{montreal.ID, ottawa.ID, toronto.ID}, storeIDs(out))
}

func TestOrderStops_UnlocatedAppendedInOriginalOrder(t *testing.T) {
	noCoordsA := unlocatedStore(10, "A")
	noCoordsB := unlocatedStore(11, "B")

	out := OrderStops([]domain.Store{noCoordsA, montreal, noCoordsB})

	assert.Equal(t, []int64{montreal.ID, noCoordsA.ID, noCoordsB.ID}, storeIDs(out))
}

func TestOrderStops_AllUnlocatedKeepsInputOrder(t *testing.T) {
	lat := 45.0
	input := []domain.Store{
		unlocatedStore(1, "A"),
		{ID: 2, DisplayName: "B", Latitude: &lat}, // longitude missing: still unlocated
		unlocatedStore(3, "C"),
	}

	out := OrderStops(input)

	assert.Equal(t, []int64{1, 2, 3}, storeIDs(out))
}

func TestOrderStops_TieBreakPrefersEarlierInput(t *testing.T) {
	// East and west are exactly equidistant from the origin; the scan keeps
	// the first minimum, so the earlier input stop wins the tie.
	origin := locatedStore(1, "Origin", 0, 0)
	east := locatedStore(2, "East", 0, 1)
	west := locatedStore(3, "West", 0, -1)

	out := OrderStops([]domain.Store{origin, east, west})
	assert.Equal(t, []int64{1, 2, 3}, storeIDs(out))

	out = OrderStops([]domain.Store{origin, west, east})
	assert.Equal(t, []int64{1, 3, 2}, storeIDs(out))
}

func TestOrderStops_Empty(t *testing.T) {
	assert.Empty(t, OrderStops(nil))
}
