package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

func editablePlan() itinerary_models.TripPlan {
	places := rovinjPlaces(4, "")
	day := dayFromPlaces(1, places)
	for i := range day.Activities {
		day.Activities[i].ID = []string{"a0", "a1", "a2", "a3"}[i]
	}
	return itinerary_models.TripPlan{ID: "trip-1", Destination: "Rovinj", Days: []itinerary_models.TripDay{day}}
}

func TestApplyEditReorder(t *testing.T) {
	routing := fixedLeg(300, 240)
	editor := NewInteractiveEditor(NewTransportAugmenter(routing, nil, zap.NewNop()))
	plan := editablePlan()
	plan.Days[0].Activities[0].Transport = &itinerary_models.TransportInfo{Mode: "walking"}

	out, err := editor.Apply(context.Background(), plan, itinerary_models.EditCommand{
		Type: itinerary_models.EditReorder, Day: 1, From: 3, To: 1,
	})
	require.NoError(t, err)

	day := out.Days[0]
	assert.Equal(t, []string{"a0", "a3", "a1", "a2"}, activityIDs(day))
	assert.Equal(t, []string{"09:00", "18:00", "12:00", "15:00"}, startTimes(day))
	assert.Nil(t, day.Activities[0].Transport)
	for i := 1; i < 4; i++ {
		require.NotNil(t, day.Activities[i].Transport, "segment %d", i)
		assert.Equal(t, "4 min", day.Activities[i].Transport.Duration)
	}
	assert.Equal(t, 3, routing.calls)

	// the input plan is untouched
	assert.Equal(t, []string{"a0", "a1", "a2", "a3"}, activityIDs(plan.Days[0]))
	assert.NotNil(t, plan.Days[0].Activities[0].Transport)
}

func TestApplyEditSwap(t *testing.T) {
	plan := editablePlan()
	replacement := itinerary_models.PlaceRecord{ID: 42, Name: "Golden Cape Forest Park", Coordinate: coord(45.0700, 13.6350)}

	out, err := ApplyEdit(plan, itinerary_models.EditCommand{
		Type:        itinerary_models.EditSwap,
		Day:         1,
		Index:       2,
		Replacement: &replacement,
		Notes:       strPtr("Bring swimwear"),
	})
	require.NoError(t, err)

	act := out.Days[0].Activities[2]
	assert.Equal(t, "a2", act.ID)
	require.NotNil(t, act.PlaceID)
	assert.Equal(t, int64(42), *act.PlaceID)
	assert.Equal(t, "Golden Cape Forest Park", act.PlaceName)
	assert.Equal(t, "Bring swimwear", act.Notes)
	assert.Equal(t, plan.Days[0].Activities[2].StartTime, act.StartTime)
	assert.Equal(t, *replacement.Coordinate, *act.Coordinate)

	_, err = ApplyEdit(plan, itinerary_models.EditCommand{Type: itinerary_models.EditSwap, Day: 1, Index: 2})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestApplyEditTimeDoesNotTouchTransport(t *testing.T) {
	routing := fixedLeg(300, 240)
	editor := NewInteractiveEditor(NewTransportAugmenter(routing, nil, zap.NewNop()))
	plan := editablePlan()

	out, err := editor.Apply(context.Background(), plan, itinerary_models.EditCommand{
		Type: itinerary_models.EditTime, Day: 1, Index: 2, StartTime: "9:45",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:45", out.Days[0].Activities[2].StartTime)
	assert.Equal(t, 0, routing.calls)

	_, err = ApplyEdit(plan, itinerary_models.EditCommand{Type: itinerary_models.EditTime, Day: 1, Index: 2, StartTime: "25:00"})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestApplyEditRejectsBadTargets(t *testing.T) {
	plan := editablePlan()

	_, err := ApplyEdit(plan, itinerary_models.EditCommand{Type: itinerary_models.EditReorder, Day: 2, From: 0, To: 1})
	assert.ErrorIs(t, err, utils.ErrDayNotFound)

	_, err = ApplyEdit(plan, itinerary_models.EditCommand{Type: itinerary_models.EditReorder, Day: 1, From: 7, To: 1})
	assert.ErrorIs(t, err, utils.ErrActivityNotFound)

	_, err = ApplyEdit(plan, itinerary_models.EditCommand{Type: itinerary_models.EditReorder, Day: 1, From: 0, To: 4})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = ApplyEdit(plan, itinerary_models.EditCommand{Type: "delete", Day: 1})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestApplyEditMovesMealWithAnchor(t *testing.T) {
	plan := editablePlan()
	plan.Days[0].Activities[0].StartTime = "11:00"
	plan.Days[0].Lunch = &itinerary_models.MealSuggestion{AnchorIndex: 1, AnchorActivityID: "a1", Type: itinerary_models.MealLunch}
	plan.Days[0].Dinner = &itinerary_models.MealSuggestion{AnchorIndex: 3, AnchorActivityID: "a3", Type: itinerary_models.MealDinner}

	out, err := ApplyEdit(plan, itinerary_models.EditCommand{Type: itinerary_models.EditReorder, Day: 1, From: 1, To: 0})
	require.NoError(t, err)

	day := out.Days[0]
	assert.Equal(t, []string{"a1", "a0", "a2", "a3"}, activityIDs(day))
	require.NotNil(t, day.Lunch)
	assert.Equal(t, 0, day.Lunch.AnchorIndex)
	require.NotNil(t, day.Dinner)
	assert.Equal(t, 3, day.Dinner.AnchorIndex)
	assert.Equal(t, 1, plan.Days[0].Lunch.AnchorIndex)

	// moving a3 out of the dinner window drops its dinner
	out, err = ApplyEdit(out, itinerary_models.EditCommand{Type: itinerary_models.EditTime, Day: 1, Index: 3, StartTime: "16:00"})
	require.NoError(t, err)
	assert.Nil(t, out.Days[0].Dinner)
	assert.NotNil(t, out.Days[0].Lunch)
}

func TestApplyEditReorderKeepsMeals(t *testing.T) {
	plan := editablePlan()
	plan.Days[0].Lunch = &itinerary_models.MealSuggestion{AnchorIndex: 1, AnchorActivityID: "a1", Type: itinerary_models.MealLunch}
	plan.Days[0].Dinner = &itinerary_models.MealSuggestion{AnchorIndex: 3, AnchorActivityID: "a3", Type: itinerary_models.MealDinner}

	out, err := ApplyEdit(plan, itinerary_models.EditCommand{Type: itinerary_models.EditReorder, Day: 1, From: 3, To: 1})
	require.NoError(t, err)

	day := out.Days[0]
	assert.Equal(t, []string{"a0", "a3", "a1", "a2"}, activityIDs(day))
	assert.Equal(t, "18:00", day.Activities[1].StartTime)
	assert.Equal(t, "12:00", day.Activities[2].StartTime)
	require.NotNil(t, day.Lunch)
	assert.Equal(t, 2, day.Lunch.AnchorIndex)
	require.NotNil(t, day.Dinner)
	assert.Equal(t, 1, day.Dinner.AnchorIndex)
}
