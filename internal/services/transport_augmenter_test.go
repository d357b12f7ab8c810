package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

func dayFromPlaces(index int, places []itinerary_models.PlaceRecord) itinerary_models.TripDay {
	newID := sequentialIDs("a")
	day := itinerary_models.TripDay{Index: index}
	times := itinerary_models.PaceIntense.SlotTimes()
	for i, p := range places {
		act := activityFromPlace(p, newID)
		act.StartTime = times[i%len(times)]
		act.Duration = "2h"
		day.Activities = append(day.Activities, act)
	}
	return day
}

func fixedLeg(meters, seconds float64) *fakeRouting {
	return &fakeRouting{route: func(_, _ itinerary_models.Coordinate) (*RouteLeg, error) {
		return &RouteLeg{DistanceMeters: meters, DurationSeconds: seconds}, nil
	}}
}

func TestAugmentDayUsesRoutes(t *testing.T) {
	routing := fixedLeg(540, 390)
	aug := NewTransportAugmenter(routing, nil, zap.NewNop())
	day := dayFromPlaces(1, rovinjPlaces(3, ""))
	day.Activities[0].Transport = &itinerary_models.TransportInfo{Mode: "bus", Duration: "5 min"}

	require.NoError(t, aug.AugmentDay(context.Background(), &day))

	assert.Nil(t, day.Activities[0].Transport)
	for _, a := range day.Activities[1:] {
		require.NotNil(t, a.Transport)
		assert.Equal(t, itinerary_models.TransportInfo{Mode: "walking", Duration: "7 min", Detail: "540 m"}, *a.Transport)
	}
	assert.Equal(t, 2, routing.calls)
}

func TestAugmentDayFallsBackToStraightLine(t *testing.T) {
	places := rovinjPlaces(3, "")
	want := straightLineSegment(*places[0].Coordinate, *places[1].Coordinate)

	for name, routing := range map[string]*fakeRouting{
		"routing error": {route: func(_, _ itinerary_models.Coordinate) (*RouteLeg, error) {
			return nil, utils.ErrNetwork
		}},
		"no route": {route: func(_, _ itinerary_models.Coordinate) (*RouteLeg, error) {
			return nil, nil
		}},
	} {
		t.Run(name, func(t *testing.T) {
			day := dayFromPlaces(1, places)
			require.NoError(t, NewTransportAugmenter(routing, nil, zap.NewNop()).AugmentDay(context.Background(), &day))
			require.NotNil(t, day.Activities[1].Transport)
			assert.Equal(t, *want, *day.Activities[1].Transport)
		})
	}

	// ~111 m apart: 111/83.33 rounds to 1 minute
	assert.Equal(t, "walking", want.Mode)
	assert.Equal(t, "1 min", want.Duration)
	assert.Equal(t, "111 m", want.Detail)
}

func TestAugmentDayClearsUnresolvedSegments(t *testing.T) {
	day := dayFromPlaces(1, rovinjPlaces(3, ""))
	day.Activities[1].Coordinate = nil
	day.Activities[1].PlaceID = nil
	day.Activities[1].Transport = &itinerary_models.TransportInfo{Mode: "walking", Duration: "3 min"}
	day.Activities[2].Transport = &itinerary_models.TransportInfo{Mode: "walking", Duration: "3 min"}

	require.NoError(t, NewTransportAugmenter(fixedLeg(100, 60), nil, zap.NewNop()).AugmentDay(context.Background(), &day))

	assert.Nil(t, day.Activities[1].Transport)
	assert.Nil(t, day.Activities[2].Transport)
}

func TestAugmentDayResolvesThroughCatalog(t *testing.T) {
	places := rovinjPlaces(2, "")
	catalog := NewStaticPlaceCatalog(places)
	day := dayFromPlaces(1, places)
	for i := range day.Activities {
		day.Activities[i].Coordinate = nil
	}

	require.NoError(t, NewTransportAugmenter(nil, catalog, zap.NewNop()).AugmentDay(context.Background(), &day))

	require.NotNil(t, day.Activities[1].Transport)
	require.NotNil(t, day.Activities[1].Coordinate)
	assert.Equal(t, *places[1].Coordinate, *day.Activities[1].Coordinate)
}

func TestAugmentDayIsIdempotent(t *testing.T) {
	aug := NewTransportAugmenter(&fakeRouting{route: func(from, to itinerary_models.Coordinate) (*RouteLeg, error) {
		m := utils.HaversineMeters(from, to) * 1.3
		return &RouteLeg{DistanceMeters: m, DurationSeconds: m / 1.3}, nil
	}}, nil, zap.NewNop())

	day := dayFromPlaces(1, rovinjPlaces(5, ""))
	require.NoError(t, aug.AugmentDay(context.Background(), &day))
	first := day.Clone()
	require.NoError(t, aug.AugmentDay(context.Background(), &day))

	assert.Equal(t, first, day)
}

func TestAugmentPlanCoversEveryDay(t *testing.T) {
	places := rovinjPlaces(6, "")
	plan := itinerary_models.TripPlan{Days: []itinerary_models.TripDay{
		dayFromPlaces(1, places[:3]),
		dayFromPlaces(2, places[3:]),
	}}

	require.NoError(t, NewTransportAugmenter(fixedLeg(200, 150), nil, zap.NewNop()).AugmentPlan(context.Background(), &plan))

	for _, d := range plan.Days {
		assert.Nil(t, d.Activities[0].Transport)
		assert.NotNil(t, d.Activities[1].Transport)
		assert.NotNil(t, d.Activities[2].Transport)
	}
}

func TestAugmentDayStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	day := dayFromPlaces(1, rovinjPlaces(2, ""))

	err := NewTransportAugmenter(nil, nil, zap.NewNop()).AugmentDay(ctx, &day)
	assert.True(t, errors.Is(err, context.Canceled))
}
