package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"iter/internal/config"
	"iter/internal/models/itinerary_models"
	"iter/internal/models/response_models"
	"iter/internal/services"
	"iter/pkg/utils"
)

type generateOptions struct {
	placesFile  string
	destination string
	start       string
	end         string
	pace        string
	categories  string
	lodging     string
	vibe        string
	budget      int
}

func newGenerateCmd(logger func() *zap.Logger) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a trip plan from a JSON place file and print it",
		Example: `  itinerary-cli generate --places places.json --destination Rovinj \
    --start 2025-06-01 --end 2025-06-03 --pace Balanced --categories Nature,Culture`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			defer func() { _ = log.Sync() }()
			return runGenerate(cmd, opts, log)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.placesFile, "places", "", "JSON file with the place catalog (required)")
	f.StringVar(&opts.destination, "destination", "", "Destination city (required)")
	f.StringVar(&opts.start, "start", "", "First day, YYYY-MM-DD (required)")
	f.StringVar(&opts.end, "end", "", "Last day, YYYY-MM-DD (defaults to --start)")
	f.StringVar(&opts.pace, "pace", "Balanced", "Relaxed, Balanced or Intense")
	f.StringVar(&opts.categories, "categories", "", "Comma-separated category keys or names")
	f.StringVar(&opts.lodging, "lodging", "", "Lodging address used as the daily anchor")
	f.StringVar(&opts.vibe, "vibe", "", "Dining vibe, e.g. Local or Street food")
	f.IntVar(&opts.budget, "budget", itinerary_models.DefaultBudgetLevel, "Budget level 1-4")
	_ = cmd.MarkFlagRequired("places")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions, log *zap.Logger) error {
	cfg, err := config.Load(false)
	if err != nil {
		return err
	}

	places, err := loadPlaces(opts.placesFile)
	if err != nil {
		return err
	}

	start, err := utils.ParseDate(opts.start)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	end := start
	if opts.end != "" {
		if end, err = utils.ParseDate(opts.end); err != nil {
			return fmt.Errorf("--end: %w", err)
		}
	}

	svc, err := newOfflineService(cmd.Context(), cfg, services.NewStaticPlaceCatalog(places), log)
	if err != nil {
		return err
	}

	plan, err := svc.GenerateTrip(cmd.Context(), services.GenerateTripInput{
		Destination:    opts.destination,
		StartDate:      start,
		EndDate:        end,
		Categories:     splitList(opts.categories),
		Pace:           itinerary_models.ParsePace(opts.pace),
		DiningVibe:     itinerary_models.DiningVibe(opts.vibe),
		BudgetLevel:    opts.budget,
		LodgingAddress: opts.lodging,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(response_models.NewTripResponse(plan))
}

// newOfflineService wires the engine against an in-memory catalog and store.
// External collaborators are used only when their keys are configured.
func newOfflineService(ctx context.Context, cfg config.Config, catalog services.PlaceCatalogInterface, log *zap.Logger) (services.ItineraryServiceInterface, error) {
	groups, err := config.CategoryGroups()
	if err != nil {
		return nil, err
	}
	classifier := services.NewCategoryClassifier(groups)

	ai, err := utils.NewItineraryAIClient(ctx, utils.AIClientOptions{
		Provider:     cfg.AI.Provider,
		GeminiAPIKey: cfg.AI.GeminiAPIKey,
		GeminiModel:  cfg.AI.GeminiModel,
		OpenAIAPIKey: cfg.AI.OpenAIAPIKey,
		OpenAIModel:  cfg.AI.OpenAIModel,
	})
	if err != nil && !errors.Is(err, utils.ErrAINotConfigured) {
		return nil, err
	}

	var (
		routing  services.RoutingServiceInterface
		geocoder services.GeocoderInterface
		search   services.RestaurantSearchInterface
	)
	if cfg.Maps.MapboxToken != "" {
		routing = services.NewMapboxRoutingClient(cfg.Maps.MapboxToken, cfg.Maps.RoutingTimeout)
		geocoder = services.NewMapboxGeocoder(cfg.Maps.MapboxToken, cfg.Maps.RoutingTimeout, nil)
	}
	if cfg.Maps.PlacesAPIKey != "" {
		search = services.NewGooglePlacesSearch(cfg.Maps.PlacesAPIKey, cfg.Maps.SearchTimeout)
	}

	augmenter := services.NewTransportAugmenter(routing, catalog, log)
	meals := services.NewMealPlanner(search, catalog, cfg.Planner.MealSearchRadiusM, log)

	return services.NewItineraryService(services.ItineraryServiceDeps{
		Catalog:    catalog,
		Classifier: classifier,
		Selector:   services.NewCandidateSelector(classifier),
		Geocoder:   geocoder,
		Composer: services.NewItineraryComposer(ai, log, services.ComposerOptions{
			Timeout:       cfg.AI.Timeout,
			MaxAttempts:   cfg.AI.MaxAttempts,
			MaxCandidates: cfg.Planner.MaxAICandidates,
		}),
		Augmenter:   augmenter,
		Meals:       meals,
		Optimizer:   services.NewRouteOptimizer(catalog, augmenter, meals, log),
		Editor:      services.NewInteractiveEditor(augmenter),
		Suggestions: services.NewSuggestionService(ai, catalog, nil, nil, cfg.AI.Timeout, log),
		Store:       services.NewMemoryTripStore(),
	}, services.PipelineOptions{
		MaxDistanceKm:    cfg.Planner.MaxDistanceKm,
		OversampleFactor: cfg.Planner.OversampleFactor,
	}, log), nil
}

func loadPlaces(path string) ([]itinerary_models.PlaceRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read places: %w", err)
	}
	var places []itinerary_models.PlaceRecord
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, fmt.Errorf("parse places %s: %w", path, err)
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%s contains no places", path)
	}
	return places, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
