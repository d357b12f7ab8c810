package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

// ApplyEdit applies one edit to a copy of plan and returns it. The input
// plan is never modified. Activities keep their start times when moved; only
// a time edit changes them. Segments of a reordered or swapped day are left
// for the transport augmenter; meals are re-anchored by activity id.
func ApplyEdit(plan itinerary_models.TripPlan, cmd itinerary_models.EditCommand) (itinerary_models.TripPlan, error) {
	out := plan.Clone()
	day := out.Day(cmd.Day)
	if day == nil {
		return plan, fmt.Errorf("%w: day %d", utils.ErrDayNotFound, cmd.Day)
	}
	n := len(day.Activities)

	switch cmd.Type {
	case itinerary_models.EditReorder:
		if cmd.From < 0 || cmd.From >= n {
			return plan, fmt.Errorf("%w: index %d on day %d", utils.ErrActivityNotFound, cmd.From, cmd.Day)
		}
		if cmd.To < 0 || cmd.To >= n {
			return plan, fmt.Errorf("%w: target index %d out of range", utils.ErrInvalidInput, cmd.To)
		}
		if cmd.From == cmd.To {
			return out, nil
		}
		moved := day.Activities[cmd.From]
		rest := append(day.Activities[:cmd.From:cmd.From], day.Activities[cmd.From+1:]...)
		acts := make([]itinerary_models.ItineraryActivity, 0, n)
		acts = append(acts, rest[:cmd.To]...)
		acts = append(acts, moved)
		acts = append(acts, rest[cmd.To:]...)
		day.Activities = acts
		day.Activities[0].Transport = nil

	case itinerary_models.EditSwap:
		if cmd.Index < 0 || cmd.Index >= n {
			return plan, fmt.Errorf("%w: index %d on day %d", utils.ErrActivityNotFound, cmd.Index, cmd.Day)
		}
		if cmd.Replacement == nil {
			return plan, fmt.Errorf("%w: swap needs a replacement place", utils.ErrInvalidInput)
		}
		act := &day.Activities[cmd.Index]
		id := cmd.Replacement.ID
		act.PlaceID = &id
		act.PlaceName = cmd.Replacement.Name
		act.Coordinate = nil
		if cmd.Replacement.Coordinate != nil {
			c := *cmd.Replacement.Coordinate
			act.Coordinate = &c
		}
		act.Notes = ""
		if cmd.Notes != nil {
			act.Notes = *cmd.Notes
		}

	case itinerary_models.EditTime:
		if cmd.Index < 0 || cmd.Index >= n {
			return plan, fmt.Errorf("%w: index %d on day %d", utils.ErrActivityNotFound, cmd.Index, cmd.Day)
		}
		t, ok := utils.NormalizeClock(cmd.StartTime)
		if !ok {
			return plan, fmt.Errorf("%w: start time %q is not HH:MM", utils.ErrInvalidInput, cmd.StartTime)
		}
		day.Activities[cmd.Index].StartTime = t

	default:
		return plan, fmt.Errorf("%w: unknown edit type %q", utils.ErrInvalidInput, cmd.Type)
	}

	day.Lunch = revalidateMeal(day, day.Lunch)
	day.Dinner = revalidateMeal(day, day.Dinner)
	return out, nil
}

type InteractiveEditorInterface interface {
	// Apply commits the edit and recomputes the edited day's transport when
	// stop positions or places changed.
	Apply(ctx context.Context, plan itinerary_models.TripPlan, cmd itinerary_models.EditCommand) (itinerary_models.TripPlan, error)
}

type InteractiveEditor struct {
	augmenter TransportAugmenterInterface
}

func NewInteractiveEditor(augmenter TransportAugmenterInterface) InteractiveEditorInterface {
	return &InteractiveEditor{augmenter: augmenter}
}

func (e *InteractiveEditor) Apply(ctx context.Context, plan itinerary_models.TripPlan, cmd itinerary_models.EditCommand) (itinerary_models.TripPlan, error) {
	ctx, span := tracer.Start(ctx, "itinerary.edit")
	defer span.End()
	span.SetAttributes(attribute.String("type", string(cmd.Type)), attribute.Int("day", cmd.Day))

	out, err := ApplyEdit(plan, cmd)
	if err != nil {
		recordSpanError(span, err)
		return plan, err
	}
	if cmd.NeedsTransport() {
		if err := e.augmenter.AugmentDay(ctx, out.Day(cmd.Day)); err != nil {
			recordSpanError(span, err)
			return out, err
		}
	}
	return out, nil
}
