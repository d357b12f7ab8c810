package services

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"iter/internal/models/itinerary_models"
)

type MealPreferences struct {
	DiningVibe  itinerary_models.DiningVibe
	BudgetLevel int
}

type MealPlannerInterface interface {
	PlanDay(ctx context.Context, day *itinerary_models.TripDay, prefs MealPreferences) error
	PlanTrip(ctx context.Context, plan *itinerary_models.TripPlan) error
	// Revalidate re-anchors meals after activities moved and drops meals
	// whose anchor disappeared or left the meal window.
	Revalidate(day *itinerary_models.TripDay)
}

type MealPlanner struct {
	search       RestaurantSearchInterface
	catalog      PlaceCatalogInterface
	radiusMeters int
	log          *zap.Logger
}

func NewMealPlanner(search RestaurantSearchInterface, catalog PlaceCatalogInterface, radiusMeters int, log *zap.Logger) MealPlannerInterface {
	if radiusMeters <= 0 {
		radiusMeters = 800
	}
	return &MealPlanner{search: search, catalog: catalog, radiusMeters: radiusMeters, log: log}
}

func (m *MealPlanner) PlanTrip(ctx context.Context, plan *itinerary_models.TripPlan) error {
	prefs := MealPreferences{DiningVibe: plan.DiningVibe, BudgetLevel: plan.BudgetLevel}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range plan.Days {
		day := &plan.Days[i]
		g.Go(func() error {
			return m.PlanDay(gctx, day, prefs)
		})
	}
	return g.Wait()
}

func (m *MealPlanner) PlanDay(ctx context.Context, day *itinerary_models.TripDay, prefs MealPreferences) error {
	ctx, span := tracer.Start(ctx, "itinerary.plan_meals")
	defer span.End()
	span.SetAttributes(attribute.Int("day", day.Index))

	day.Lunch, day.Dinner = nil, nil
	if len(day.Activities) == 0 {
		return nil
	}

	coords := resolveCoordinates(ctx, m.catalog, m.log, day.Activities)
	for _, mealType := range []itinerary_models.MealType{itinerary_models.MealLunch, itinerary_models.MealDinner} {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx := FindMealAnchor(day.Activities, mealType)
		if idx < 0 {
			continue
		}
		if coords[idx] == nil {
			m.log.Debug("meal anchor has no coordinate", zap.Int("day", day.Index), zap.String("meal", string(mealType)))
			continue
		}
		meal := m.suggest(ctx, day.Activities[idx], idx, *coords[idx], mealType, prefs)
		if meal == nil {
			continue
		}
		if mealType == itinerary_models.MealLunch {
			day.Lunch = meal
		} else {
			day.Dinner = meal
		}
	}
	return nil
}

func (m *MealPlanner) suggest(
	ctx context.Context,
	anchor itinerary_models.ItineraryActivity,
	idx int,
	at itinerary_models.Coordinate,
	mealType itinerary_models.MealType,
	prefs MealPreferences,
) *itinerary_models.MealSuggestion {
	if m.search == nil {
		return nil
	}
	results, err := m.search.Nearby(ctx, at, m.radiusMeters, prefs.DiningVibe.SearchQuery())
	if err != nil {
		m.log.Warn("restaurant search failed", zap.String("meal", string(mealType)), zap.Error(err))
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	picked, unfiltered := FilterByBudget(results, prefs.BudgetLevel)
	if unfiltered {
		m.log.Debug("no restaurant within budget, keeping unfiltered results",
			zap.Int("budget_level", prefs.BudgetLevel), zap.Int("results", len(results)))
	}
	if len(picked) > itinerary_models.MaxRestaurantsPerMeal {
		picked = picked[:itinerary_models.MaxRestaurantsPerMeal]
	}

	return &itinerary_models.MealSuggestion{
		AnchorIndex:      idx,
		AnchorActivityID: anchor.ID,
		Type:             mealType,
		SuggestedTime:    mealType.SuggestedTime(),
		Restaurants:      picked,
		UnfilteredBudget: unfiltered,
	}
}

// FindMealAnchor returns the index of the first activity (by start time) in
// the lunch window, or the last one in the dinner window; -1 when none.
func FindMealAnchor(acts []itinerary_models.ItineraryActivity, mealType itinerary_models.MealType) int {
	order := make([]int, len(acts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return acts[order[a]].StartTime < acts[order[b]].StartTime
	})

	lo, hi := mealType.Window()
	inWindow := func(i int) bool {
		h, ok := acts[i].StartHour()
		return ok && h >= lo && h <= hi
	}

	if mealType == itinerary_models.MealDinner {
		for k := len(order) - 1; k >= 0; k-- {
			if inWindow(order[k]) {
				return order[k]
			}
		}
		return -1
	}
	for _, i := range order {
		if inWindow(i) {
			return i
		}
	}
	return -1
}

// FilterByBudget keeps restaurants whose price level is within one of the
// target. When nothing survives it returns the input untouched and
// unfiltered=true.
func FilterByBudget(in []itinerary_models.RestaurantSuggestion, level int) (out []itinerary_models.RestaurantSuggestion, unfiltered bool) {
	if level < itinerary_models.MinBudgetLevel || level > itinerary_models.MaxBudgetLevel {
		level = itinerary_models.DefaultBudgetLevel
	}
	for _, r := range in {
		if r.PriceLevel == nil {
			continue
		}
		if d := *r.PriceLevel - level; d >= -1 && d <= 1 {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return append([]itinerary_models.RestaurantSuggestion(nil), in...), true
	}
	return out, false
}

func (m *MealPlanner) Revalidate(day *itinerary_models.TripDay) {
	day.Lunch = revalidateMeal(day, day.Lunch)
	day.Dinner = revalidateMeal(day, day.Dinner)
}

func revalidateMeal(day *itinerary_models.TripDay, meal *itinerary_models.MealSuggestion) *itinerary_models.MealSuggestion {
	if meal == nil {
		return nil
	}
	idx := meal.AnchorIndex
	if meal.AnchorActivityID != "" {
		idx = day.IndexOf(meal.AnchorActivityID)
	}
	if idx < 0 || idx >= len(day.Activities) {
		return nil
	}
	lo, hi := meal.Type.Window()
	h, ok := day.Activities[idx].StartHour()
	if !ok || h < lo || h > hi {
		return nil
	}
	meal.AnchorIndex = idx
	return meal
}
