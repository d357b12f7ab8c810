package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"iter/internal/models/itinerary_models"
	mem "iter/pkg/memcache"
	"iter/pkg/utils"
)

const MaxTripDays = 30

type GenerateTripInput struct {
	// TripID regenerates an existing trip when set.
	TripID         string
	OwnerID        string
	Destination    string
	StartDate      time.Time
	EndDate        time.Time
	Categories     []string
	Pace           itinerary_models.Pace
	DiningVibe     itinerary_models.DiningVibe
	BudgetLevel    int
	LodgingAddress string
}

// TripEdit is an edit as received from a client: swaps name the new place by
// id and the service resolves it against the catalog.
type TripEdit struct {
	itinerary_models.EditCommand
	PlaceID int64
}

type ItineraryServiceInterface interface {
	GenerateTrip(ctx context.Context, in GenerateTripInput) (itinerary_models.TripPlan, error)
	GetTrip(ctx context.Context, ownerID, tripID string) (itinerary_models.TripPlan, error)
	ListTrips(ctx context.Context, ownerID string, page, pageSize int) ([]itinerary_models.TripPlan, error)
	DeleteTrip(ctx context.Context, ownerID, tripID string) error
	ApplyEdit(ctx context.Context, ownerID, tripID string, edit TripEdit) (itinerary_models.TripPlan, error)
	OptimizeDay(ctx context.Context, ownerID, tripID string, day int) (itinerary_models.TripPlan, error)
	SuggestAlternatives(ctx context.Context, ownerID, tripID string, day, index, limit int) ([]itinerary_models.PlaceRecord, error)
	Schedule(ctx context.Context, ownerID, tripID string, day int) ([]itinerary_models.ScheduleEntry, error)
}

type PipelineOptions struct {
	MaxDistanceKm    float64
	OversampleFactor int
}

type ItineraryService struct {
	catalog     PlaceCatalogInterface
	classifier  CategoryClassifierInterface
	selector    CandidateSelectorInterface
	geocoder    GeocoderInterface
	composer    ItineraryComposerInterface
	augmenter   TransportAugmenterInterface
	meals       MealPlannerInterface
	optimizer   RouteOptimizerInterface
	editor      InteractiveEditorInterface
	suggestions SuggestionServiceInterface
	store       TripStoreInterface
	generations *mem.GenerationTracker
	opts        PipelineOptions
	log         *zap.Logger
}

type ItineraryServiceDeps struct {
	Catalog     PlaceCatalogInterface
	Classifier  CategoryClassifierInterface
	Selector    CandidateSelectorInterface
	Geocoder    GeocoderInterface
	Composer    ItineraryComposerInterface
	Augmenter   TransportAugmenterInterface
	Meals       MealPlannerInterface
	Optimizer   RouteOptimizerInterface
	Editor      InteractiveEditorInterface
	Suggestions SuggestionServiceInterface
	Store       TripStoreInterface
	Generations *mem.GenerationTracker
}

func NewItineraryService(deps ItineraryServiceDeps, opts PipelineOptions, log *zap.Logger) ItineraryServiceInterface {
	if opts.MaxDistanceKm <= 0 {
		opts.MaxDistanceKm = 15
	}
	if opts.OversampleFactor < 1 {
		opts.OversampleFactor = 2
	}
	if deps.Generations == nil {
		deps.Generations = mem.NewGenerationTracker()
	}
	return &ItineraryService{
		catalog:     deps.Catalog,
		classifier:  deps.Classifier,
		selector:    deps.Selector,
		geocoder:    deps.Geocoder,
		composer:    deps.Composer,
		augmenter:   deps.Augmenter,
		meals:       deps.Meals,
		optimizer:   deps.Optimizer,
		editor:      deps.Editor,
		suggestions: deps.Suggestions,
		store:       deps.Store,
		generations: deps.Generations,
		opts:        opts,
		log:         log,
	}
}

func (s *ItineraryService) GenerateTrip(ctx context.Context, in GenerateTripInput) (itinerary_models.TripPlan, error) {
	ctx, span := tracer.Start(ctx, "itinerary.generate")
	defer span.End()

	in, err := normalizeGenerateInput(in)
	if err != nil {
		recordSpanError(span, err)
		return itinerary_models.TripPlan{}, err
	}
	groups, err := s.classifier.ResolveKeys(in.Categories)
	if err != nil {
		return itinerary_models.TripPlan{}, err
	}

	if in.TripID != "" {
		existing, err := s.loadOwned(ctx, in.OwnerID, in.TripID)
		if err != nil {
			return itinerary_models.TripPlan{}, err
		}
		in.TripID = existing.ID
	} else {
		in.TripID = uuid.NewString()
	}
	token := s.generations.Begin(in.TripID)
	span.SetAttributes(attribute.String("trip_id", in.TripID), attribute.String("destination", in.Destination))

	places, err := s.catalog.FetchPlaces(ctx, itinerary_models.PlaceFilter{City: in.Destination})
	if err != nil {
		recordSpanError(span, err)
		return itinerary_models.TripPlan{}, err
	}

	anchor := s.resolveAnchor(ctx, in.LodgingAddress, in.Destination)
	days := itinerary_models.DayCount(in.StartDate, in.EndDate)

	candidates := s.selector.Select(SelectionRequest{
		Places:        places,
		Groups:        groups,
		Anchor:        anchor,
		MaxDistanceKm: s.opts.MaxDistanceKm,
		TargetCount:   TargetCandidateCount(days, in.Pace, s.opts.OversampleFactor),
	})
	if len(candidates) == 0 {
		err := fmt.Errorf("%w in %s", utils.ErrNoCandidates, in.Destination)
		recordSpanError(span, err)
		return itinerary_models.TripPlan{}, err
	}
	s.log.Debug("candidates selected",
		zap.String("trip_id", in.TripID), zap.Int("pool", len(places)), zap.Int("candidates", len(candidates)))

	composed := s.composer.Compose(ctx, ComposeRequest{
		Destination:    in.Destination,
		Days:           days,
		Candidates:     candidates,
		LodgingAddress: in.LodgingAddress,
		Pace:           in.Pace,
		DiningVibe:     in.DiningVibe,
	})
	if composed.FallbackReason != nil {
		s.log.Warn("using fallback schedule", zap.String("trip_id", in.TripID), zap.Error(composed.FallbackReason))
	}

	plan := itinerary_models.TripPlan{
		ID:             in.TripID,
		OwnerID:        in.OwnerID,
		Destination:    in.Destination,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Categories:     groupKeys(groups),
		Pace:           in.Pace,
		DiningVibe:     in.DiningVibe,
		BudgetLevel:    in.BudgetLevel,
		LodgingAddress: in.LodgingAddress,
		Days:           composed.Days,
	}

	if err := s.augmenter.AugmentPlan(ctx, &plan); err != nil {
		recordSpanError(span, err)
		return itinerary_models.TripPlan{}, err
	}
	if err := s.meals.PlanTrip(ctx, &plan); err != nil {
		recordSpanError(span, err)
		return itinerary_models.TripPlan{}, err
	}

	if !s.generations.IsLatest(token) {
		s.log.Info("discarding superseded generation", zap.String("trip_id", in.TripID), zap.Uint64("seq", token.Seq))
		return itinerary_models.TripPlan{}, utils.ErrStaleGeneration
	}
	if err := s.store.Save(ctx, plan); err != nil {
		recordSpanError(span, err)
		return itinerary_models.TripPlan{}, err
	}

	s.log.Info("trip generated",
		zap.String("trip_id", plan.ID),
		zap.Int("days", len(plan.Days)),
		zap.Bool("fallback", composed.FallbackReason != nil))
	return plan, nil
}

// resolveAnchor degrades to no anchor when the lodging cannot be located.
func (s *ItineraryService) resolveAnchor(ctx context.Context, address, city string) *itinerary_models.Coordinate {
	if strings.TrimSpace(address) == "" || s.geocoder == nil {
		return nil
	}
	c, err := s.geocoder.Resolve(ctx, address, city)
	if err != nil {
		s.log.Warn("lodging not resolved, selecting without anchor", zap.String("address", address), zap.Error(err))
		return nil
	}
	return &c
}

func normalizeGenerateInput(in GenerateTripInput) (GenerateTripInput, error) {
	in.Destination = strings.TrimSpace(in.Destination)
	if in.Destination == "" {
		return in, fmt.Errorf("%w: destination is required", utils.ErrInvalidInput)
	}
	if in.StartDate.IsZero() {
		return in, fmt.Errorf("%w: start date is required", utils.ErrInvalidInput)
	}
	if in.EndDate.IsZero() {
		in.EndDate = in.StartDate
	}
	if in.EndDate.Before(in.StartDate) {
		return in, fmt.Errorf("%w: end date precedes start date", utils.ErrInvalidInput)
	}
	if n := itinerary_models.DayCount(in.StartDate, in.EndDate); n > MaxTripDays {
		return in, fmt.Errorf("%w: trips are limited to %d days, got %d", utils.ErrInvalidInput, MaxTripDays, n)
	}
	if in.Pace == "" {
		in.Pace = itinerary_models.PaceBalanced
	}
	if in.BudgetLevel == 0 {
		in.BudgetLevel = itinerary_models.DefaultBudgetLevel
	}
	if in.BudgetLevel < itinerary_models.MinBudgetLevel || in.BudgetLevel > itinerary_models.MaxBudgetLevel {
		return in, fmt.Errorf("%w: budget level must be between %d and %d",
			utils.ErrInvalidInput, itinerary_models.MinBudgetLevel, itinerary_models.MaxBudgetLevel)
	}
	return in, nil
}

func groupKeys(groups []itinerary_models.CategoryGroup) []string {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	return keys
}

func (s *ItineraryService) GetTrip(ctx context.Context, ownerID, tripID string) (itinerary_models.TripPlan, error) {
	return s.loadOwned(ctx, ownerID, tripID)
}

func (s *ItineraryService) ListTrips(ctx context.Context, ownerID string, page, pageSize int) ([]itinerary_models.TripPlan, error) {
	return s.store.List(ctx, ownerID, page, pageSize)
}

func (s *ItineraryService) DeleteTrip(ctx context.Context, ownerID, tripID string) error {
	if _, err := s.loadOwned(ctx, ownerID, tripID); err != nil {
		return err
	}
	// an in-flight generation for this trip must not resurrect it
	s.generations.Begin(tripID)
	return s.store.Delete(ctx, tripID)
}

// loadOwned hides other owners' trips behind ErrTripNotFound.
func (s *ItineraryService) loadOwned(ctx context.Context, ownerID, tripID string) (itinerary_models.TripPlan, error) {
	plan, err := s.store.Load(ctx, tripID)
	if err != nil {
		return itinerary_models.TripPlan{}, err
	}
	if plan.OwnerID != "" && plan.OwnerID != ownerID {
		return itinerary_models.TripPlan{}, fmt.Errorf("%w: %s", utils.ErrTripNotFound, tripID)
	}
	return plan, nil
}

func (s *ItineraryService) ApplyEdit(ctx context.Context, ownerID, tripID string, edit TripEdit) (itinerary_models.TripPlan, error) {
	plan, err := s.loadOwned(ctx, ownerID, tripID)
	if err != nil {
		return itinerary_models.TripPlan{}, err
	}

	cmd := edit.EditCommand
	if cmd.Type == itinerary_models.EditSwap && cmd.Replacement == nil {
		place, err := s.catalog.FetchPlaceByID(ctx, edit.PlaceID)
		if err != nil {
			return itinerary_models.TripPlan{}, err
		}
		if place == nil {
			return itinerary_models.TripPlan{}, fmt.Errorf("%w: %d", utils.ErrPlaceNotFound, edit.PlaceID)
		}
		cmd.Replacement = place
	}

	updated, err := s.editor.Apply(ctx, plan, cmd)
	if err != nil {
		// The edit itself committed; a failed transport pass keeps the
		// segments it already wrote.
		if errors.Is(err, utils.ErrInvalidInput) || errors.Is(err, utils.ErrDayNotFound) || errors.Is(err, utils.ErrActivityNotFound) {
			return itinerary_models.TripPlan{}, err
		}
		s.log.Warn("transport recompute after edit failed", zap.String("trip_id", tripID), zap.Error(err))
	}
	if err := s.store.Save(ctx, updated); err != nil {
		return itinerary_models.TripPlan{}, err
	}
	return updated, nil
}

func (s *ItineraryService) OptimizeDay(ctx context.Context, ownerID, tripID string, dayIndex int) (itinerary_models.TripPlan, error) {
	plan, err := s.loadOwned(ctx, ownerID, tripID)
	if err != nil {
		return itinerary_models.TripPlan{}, err
	}
	plan = plan.Clone()
	day := plan.Day(dayIndex)
	if day == nil {
		return itinerary_models.TripPlan{}, fmt.Errorf("%w: day %d", utils.ErrDayNotFound, dayIndex)
	}

	changed, err := s.optimizer.OptimizeDay(ctx, day)
	if err != nil {
		s.log.Warn("transport recompute after optimize failed", zap.String("trip_id", tripID), zap.Error(err))
	}
	if !changed {
		return plan, nil
	}
	if err := s.store.Save(ctx, plan); err != nil {
		return itinerary_models.TripPlan{}, err
	}
	return plan, nil
}

func (s *ItineraryService) SuggestAlternatives(ctx context.Context, ownerID, tripID string, dayIndex, index, limit int) ([]itinerary_models.PlaceRecord, error) {
	plan, err := s.loadOwned(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}
	day := plan.Day(dayIndex)
	if day == nil {
		return nil, fmt.Errorf("%w: day %d", utils.ErrDayNotFound, dayIndex)
	}

	exclude := make(map[int64]bool)
	for _, d := range plan.Days {
		for _, a := range d.Activities {
			if a.PlaceID != nil {
				exclude[*a.PlaceID] = true
			}
		}
	}
	return s.suggestions.SuggestAlternatives(ctx, AlternativesRequest{
		Destination: plan.Destination,
		Day:         *day,
		Index:       index,
		Limit:       limit,
		Exclude:     exclude,
	})
}

func (s *ItineraryService) Schedule(ctx context.Context, ownerID, tripID string, dayIndex int) ([]itinerary_models.ScheduleEntry, error) {
	plan, err := s.loadOwned(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}
	day := plan.Day(dayIndex)
	if day == nil {
		return nil, fmt.Errorf("%w: day %d", utils.ErrDayNotFound, dayIndex)
	}
	return day.Timeline(), nil
}
