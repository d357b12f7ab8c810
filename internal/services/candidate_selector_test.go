package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

func newTestSelector() *CandidateSelector {
	return &CandidateSelector{
		classifier: NewCategoryClassifier(testGroups()),
		shuffle:    func(int, func(i, j int)) {},
	}
}

func TestTargetCandidateCount(t *testing.T) {
	assert.Equal(t, 24, TargetCandidateCount(3, itinerary_models.PaceBalanced, 2))
	assert.Equal(t, 3, TargetCandidateCount(1, itinerary_models.PaceRelaxed, 0))
	assert.Equal(t, 10, TargetCandidateCount(2, itinerary_models.PaceIntense, 1))
}

func TestSelectKeepsUntaggedPlacesForAnySelection(t *testing.T) {
	s := newTestSelector()
	places := rovinjPlaces(5, "")
	places[2].TagsTitle = strPtr("")

	out := s.Select(SelectionRequest{
		Places: places,
		Groups: []itinerary_models.CategoryGroup{testGroups()[0]},
	})
	assert.Len(t, out, 5)
}

func TestSelectFiltersByCategory(t *testing.T) {
	s := newTestSelector()
	places := rovinjPlaces(4, "Museum")
	places[1].TagsTitle = strPtr("City Park")

	out := s.Select(SelectionRequest{
		Places: places,
		Groups: []itinerary_models.CategoryGroup{testGroups()[0]},
	})
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].ID)

	none := s.Select(SelectionRequest{
		Places: rovinjPlaces(3, "Museum"),
		Groups: []itinerary_models.CategoryGroup{testGroups()[2]},
	})
	assert.Empty(t, none)
}

func TestSelectSortsByAnchorDistance(t *testing.T) {
	s := newTestSelector()
	places := rovinjPlaces(5, "")
	anchor := *places[4].Coordinate

	out := s.Select(SelectionRequest{Places: places, Anchor: &anchor})
	require.Len(t, out, 5)
	ids := make([]int64, len(out))
	for i, p := range out {
		ids[i] = p.ID
	}
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids)
}

func TestSelectContainmentMeasuresToCenter(t *testing.T) {
	s := newTestSelector()
	// 0.004 deg latitude is roughly 445 m; a chain of 0.004 steps stays
	// pairwise close while drifting away from the first place.
	places := []itinerary_models.PlaceRecord{
		{ID: 1, Name: "A", Coordinate: coord(45.0800, 13.6380)},
		{ID: 2, Name: "B", Coordinate: coord(45.0840, 13.6380)},
		{ID: 3, Name: "C", Coordinate: coord(45.0880, 13.6380)},
		{ID: 4, Name: "D", Coordinate: coord(45.0920, 13.6380)},
		{ID: 5, Name: "No coordinate"},
	}
	anchor := *places[0].Coordinate

	out := s.Select(SelectionRequest{Places: places, Anchor: &anchor, MaxDistanceKm: 1})
	ids := make([]int64, len(out))
	for i, p := range out {
		ids[i] = p.ID
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)

	center := *out[0].Coordinate
	for _, p := range out[1:] {
		require.NotNil(t, p.Coordinate)
		assert.LessOrEqual(t, utils.HaversineMeters(center, *p.Coordinate), 1000.0)
	}
}

func TestSelectTruncatesToTarget(t *testing.T) {
	s := newTestSelector()
	out := s.Select(SelectionRequest{Places: rovinjPlaces(30, ""), MaxDistanceKm: 15, TargetCount: 8})
	assert.Len(t, out, 8)
}

func TestSelectShufflesWithoutAnchor(t *testing.T) {
	s := newTestSelector()
	shuffled := false
	s.shuffle = func(n int, swap func(i, j int)) {
		shuffled = true
		swap(0, n-1)
	}

	out := s.Select(SelectionRequest{Places: rovinjPlaces(3, "")})
	assert.True(t, shuffled)
	assert.Equal(t, int64(3), out[0].ID)
}
