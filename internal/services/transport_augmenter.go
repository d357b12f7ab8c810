package services

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

const walkingMode = "walking"

type TransportAugmenterInterface interface {
	// AugmentDay recomputes every segment of one day in activity order.
	AugmentDay(ctx context.Context, day *itinerary_models.TripDay) error
	// AugmentPlan runs AugmentDay for all days concurrently.
	AugmentPlan(ctx context.Context, plan *itinerary_models.TripPlan) error
}

type TransportAugmenter struct {
	routing RoutingServiceInterface
	catalog PlaceCatalogInterface
	log     *zap.Logger
}

// NewTransportAugmenter accepts nil routing (straight-line estimates only) and
// a nil catalog (snapshots only).
func NewTransportAugmenter(routing RoutingServiceInterface, catalog PlaceCatalogInterface, log *zap.Logger) TransportAugmenterInterface {
	return &TransportAugmenter{routing: routing, catalog: catalog, log: log}
}

func (t *TransportAugmenter) AugmentPlan(ctx context.Context, plan *itinerary_models.TripPlan) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range plan.Days {
		day := &plan.Days[i]
		g.Go(func() error {
			return t.AugmentDay(gctx, day)
		})
	}
	return g.Wait()
}

func (t *TransportAugmenter) AugmentDay(ctx context.Context, day *itinerary_models.TripDay) error {
	ctx, span := tracer.Start(ctx, "itinerary.augment_day")
	defer span.End()
	span.SetAttributes(attribute.Int("day", day.Index), attribute.Int("activities", len(day.Activities)))

	coords := resolveCoordinates(ctx, t.catalog, t.log, day.Activities)

	for i := range day.Activities {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == 0 {
			day.Activities[i].Transport = nil
			continue
		}
		from, to := coords[i-1], coords[i]
		if from == nil || to == nil {
			t.log.Debug("segment left without transport",
				zap.Int("day", day.Index), zap.Int("index", i), zap.Error(utils.ErrGeometryUnresolved))
			day.Activities[i].Transport = nil
			continue
		}
		day.Activities[i].Transport = t.segment(ctx, *from, *to)
	}
	return nil
}

func (t *TransportAugmenter) segment(ctx context.Context, from, to itinerary_models.Coordinate) *itinerary_models.TransportInfo {
	if t.routing != nil {
		leg, err := t.routing.WalkingRoute(ctx, from, to)
		switch {
		case err != nil:
			t.log.Warn("walking route failed, estimating", zap.Error(err))
		case leg == nil:
			t.log.Debug("no walking route, estimating")
		default:
			minutes := int(math.Round(leg.DurationSeconds / 60))
			if minutes < 1 {
				minutes = 1
			}
			return &itinerary_models.TransportInfo{
				Mode:     walkingMode,
				Duration: utils.FormatMinutes(minutes),
				Detail:   utils.FormatDistance(leg.DistanceMeters),
			}
		}
	}
	return straightLineSegment(from, to)
}

// straightLineSegment estimates a walk at constant speed over the great-circle distance.
func straightLineSegment(from, to itinerary_models.Coordinate) *itinerary_models.TransportInfo {
	meters := utils.HaversineMeters(from, to)
	return &itinerary_models.TransportInfo{
		Mode:     walkingMode,
		Duration: utils.FormatMinutes(utils.WalkingMinutes(meters)),
		Detail:   utils.FormatDistance(meters),
	}
}

// resolveCoordinates returns a coordinate per activity: the snapshot when
// present, otherwise a catalog lookup by place id. Resolved lookups are
// written back as the activity's snapshot. Unresolvable entries are nil.
func resolveCoordinates(ctx context.Context, catalog PlaceCatalogInterface, log *zap.Logger, acts []itinerary_models.ItineraryActivity) []*itinerary_models.Coordinate {
	out := make([]*itinerary_models.Coordinate, len(acts))
	for i := range acts {
		if acts[i].Coordinate != nil {
			c := *acts[i].Coordinate
			out[i] = &c
			continue
		}
		if acts[i].PlaceID == nil || catalog == nil {
			continue
		}
		place, err := catalog.FetchPlaceByID(ctx, *acts[i].PlaceID)
		if err != nil {
			log.Warn("place lookup failed", zap.Int64("place_id", *acts[i].PlaceID), zap.Error(err))
			continue
		}
		if place == nil || place.Coordinate == nil {
			continue
		}
		c := *place.Coordinate
		out[i] = &c
		snapshot := c
		acts[i].Coordinate = &snapshot
	}
	return out
}
