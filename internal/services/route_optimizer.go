package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

type RouteOptimizerInterface interface {
	// OptimizeDay reorders the day's stops greedily and recomputes transport.
	// Stops keep their own start times.
	// It reports false when the day has two stops or fewer and was left alone.
	OptimizeDay(ctx context.Context, day *itinerary_models.TripDay) (bool, error)
}

type RouteOptimizer struct {
	catalog   PlaceCatalogInterface
	augmenter TransportAugmenterInterface
	meals     MealPlannerInterface
	log       *zap.Logger
}

func NewRouteOptimizer(catalog PlaceCatalogInterface, augmenter TransportAugmenterInterface, meals MealPlannerInterface, log *zap.Logger) RouteOptimizerInterface {
	return &RouteOptimizer{catalog: catalog, augmenter: augmenter, meals: meals, log: log}
}

func (o *RouteOptimizer) OptimizeDay(ctx context.Context, day *itinerary_models.TripDay) (bool, error) {
	ctx, span := tracer.Start(ctx, "itinerary.optimize_day")
	defer span.End()
	span.SetAttributes(attribute.Int("day", day.Index), attribute.Int("activities", len(day.Activities)))

	if len(day.Activities) <= 2 {
		return false, nil
	}

	coords := resolveCoordinates(ctx, o.catalog, o.log, day.Activities)
	order := NearestNeighborOrder(coords)
	if coords[0] == nil {
		o.log.Debug("first stop has no coordinate, keeping order", zap.Int("day", day.Index), zap.Error(utils.ErrGeometryUnresolved))
	}

	reordered := make([]itinerary_models.ItineraryActivity, len(order))
	for pos, i := range order {
		reordered[pos] = day.Activities[i]
	}
	day.Activities = reordered

	if err := o.augmenter.AugmentDay(ctx, day); err != nil {
		recordSpanError(span, err)
		return true, err
	}
	if o.meals != nil {
		o.meals.Revalidate(day)
	}
	return true, nil
}

// NearestNeighborOrder keeps index 0 first and repeatedly steps to the
// closest unvisited resolvable point; ties go to the lower index. Points
// without a coordinate follow in their original order. A nil first point
// yields the identity order.
func NearestNeighborOrder(coords []*itinerary_models.Coordinate) []int {
	n := len(coords)
	order := make([]int, 0, n)
	if n == 0 {
		return order
	}
	if coords[0] == nil {
		for i := 0; i < n; i++ {
			order = append(order, i)
		}
		return order
	}

	placed := make([]bool, n)
	placed[0] = true
	order = append(order, 0)
	cur := 0

	for {
		best, bestDist := -1, 0.0
		for j := 0; j < n; j++ {
			if placed[j] || coords[j] == nil {
				continue
			}
			d := utils.HaversineMeters(*coords[cur], *coords[j])
			if best == -1 || d < bestDist {
				best, bestDist = j, d
			}
		}
		if best == -1 {
			break
		}
		placed[best] = true
		order = append(order, best)
		cur = best
	}

	for j := 0; j < n; j++ {
		if !placed[j] {
			order = append(order, j)
		}
	}
	return order
}
