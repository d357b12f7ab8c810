package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iter/internal/models/db_models"
	"iter/internal/models/itinerary_models"
	"iter/internal/repositories"
	"iter/pkg/utils"
)

type fakeTripRepo struct {
	rows    map[uuid.UUID]db_models.Trip
	deleted []uuid.UUID
}

var _ repositories.TripRepository = (*fakeTripRepo)(nil)

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{rows: make(map[uuid.UUID]db_models.Trip)}
}

func (f *fakeTripRepo) ReplaceTrip(_ context.Context, trip *db_models.Trip) error {
	f.rows[trip.ID] = *trip
	return nil
}

func (f *fakeTripRepo) GetTripByID(_ context.Context, id uuid.UUID) (*db_models.Trip, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (f *fakeTripRepo) ListTripsByOwner(_ context.Context, ownerID string, _, _ int) ([]db_models.Trip, error) {
	var out []db_models.Trip
	for _, r := range f.rows {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTripRepo) DeleteTrip(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	delete(f.rows, id)
	return nil
}

func storedPlan() itinerary_models.TripPlan {
	lunchAnchor := uuid.NewString()
	return itinerary_models.TripPlan{
		ID:             uuid.NewString(),
		OwnerID:        "user-1",
		Destination:    "Rovinj",
		StartDate:      time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		Categories:     []string{"nature", "history"},
		Pace:           itinerary_models.PaceRelaxed,
		DiningVibe:     "Street food",
		BudgetLevel:    3,
		LodgingAddress: "Trg Maršala Tita 1",
		Days: []itinerary_models.TripDay{
			{
				Index: 1,
				Activities: []itinerary_models.ItineraryActivity{
					{ID: uuid.NewString(), PlaceID: int64Ptr(7), PlaceName: "Church of St. Euphemia", StartTime: "09:00", Duration: "2h", Coordinate: coord(45.0833, 13.6317)},
					{
						ID: lunchAnchor, PlaceID: int64Ptr(9), PlaceName: "Balbi Arch", StartTime: "12:00", Duration: "1.5h",
						Coordinate: coord(45.0817, 13.6358),
						Transport:  &itinerary_models.TransportInfo{Mode: "walking", Duration: "6 min", Detail: "420 m"},
						Notes:      "Photo stop",
					},
					{ID: uuid.NewString(), PlaceName: "Free exploration", StartTime: "15:00", Duration: "2.5h"},
				},
				Lunch: &itinerary_models.MealSuggestion{
					AnchorIndex: 1, AnchorActivityID: lunchAnchor, Type: itinerary_models.MealLunch, SuggestedTime: "12:30",
					Restaurants: []itinerary_models.RestaurantSuggestion{{ID: "r1", Name: "Male Madlene", PriceLevel: intPtr(3)}},
				},
			},
			{Index: 2, Activities: []itinerary_models.ItineraryActivity{}},
		},
	}
}

func TestGormTripStoreMapsPlans(t *testing.T) {
	repo := newFakeTripRepo()
	store := NewGormTripStore(repo)
	plan := storedPlan()

	require.NoError(t, store.Save(context.Background(), plan))

	row := repo.rows[uuid.MustParse(plan.ID)]
	require.Len(t, row.Days, 2)
	assert.Equal(t, 1, row.Days[0].Activities[1].Position)
	assert.Equal(t, "walking", row.Days[0].Activities[1].TransportMode)
	require.Len(t, row.Days[0].Meals, 1)
	assert.Equal(t, "lunch", row.Days[0].Meals[0].MealType)

	loaded, err := store.Load(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan, loaded)
}

func TestGormTripStoreErrors(t *testing.T) {
	store := NewGormTripStore(newFakeTripRepo())

	_, err := store.Load(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, utils.ErrTripNotFound)

	_, err = store.Load(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, utils.ErrTripNotFound)

	plan := storedPlan()
	plan.ID = "trip-1"
	assert.ErrorIs(t, store.Save(context.Background(), plan), utils.ErrInvalidInput)
}

func TestGormTripStoreListAndDelete(t *testing.T) {
	repo := newFakeTripRepo()
	store := NewGormTripStore(repo)
	plan := storedPlan()
	require.NoError(t, store.Save(context.Background(), plan))

	trips, err := store.List(context.Background(), "user-1", 1, 20)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, plan.ID, trips[0].ID)

	require.NoError(t, store.Delete(context.Background(), plan.ID))
	assert.Equal(t, []uuid.UUID{uuid.MustParse(plan.ID)}, repo.deleted)
}

func TestMemoryTripStoreIsolatesCopies(t *testing.T) {
	store := NewMemoryTripStore()
	plan := storedPlan()
	require.NoError(t, store.Save(context.Background(), plan))

	plan.Days[0].Activities[0].PlaceName = "changed after save"
	loaded, err := store.Load(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Church of St. Euphemia", loaded.Days[0].Activities[0].PlaceName)

	loaded.Days[0].Lunch.AnchorIndex = 2
	again, err := store.Load(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Days[0].Lunch.AnchorIndex)

	trips, err := store.List(context.Background(), "user-1", 1, 10)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Nil(t, trips[0].Days)

	require.NoError(t, store.Delete(context.Background(), plan.ID))
	_, err = store.Load(context.Background(), plan.ID)
	assert.ErrorIs(t, err, utils.ErrTripNotFound)
}
