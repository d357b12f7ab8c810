package trips_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"iter/internal/config"
	"iter/internal/repositories"
	"iter/internal/services"
	mem "iter/pkg/memcache"
	"iter/pkg/utils"
)

var Module = fx.Provide(
	repositories.NewTripRepository,
	services.NewGormTripStore,
	services.NewCandidateSelector,
	provideComposer,
	services.NewTransportAugmenter,
	provideMealPlanner,
	services.NewRouteOptimizer,
	services.NewInteractiveEditor,
	provideSuggestionService,
	provideItineraryService)

func provideComposer(ai utils.ItineraryAIClient, cfg config.Config, log *zap.Logger) services.ItineraryComposerInterface {
	return services.NewItineraryComposer(ai, log, services.ComposerOptions{
		Timeout:       cfg.AI.Timeout,
		MaxAttempts:   cfg.AI.MaxAttempts,
		MaxCandidates: cfg.Planner.MaxAICandidates,
	})
}

func provideMealPlanner(search services.RestaurantSearchInterface, catalog services.PlaceCatalogInterface, cfg config.Config, log *zap.Logger) services.MealPlannerInterface {
	return services.NewMealPlanner(search, catalog, cfg.Planner.MealSearchRadiusM, log)
}

func provideSuggestionService(
	ai utils.ItineraryAIClient,
	catalog services.PlaceCatalogInterface,
	embedder utils.EmbeddingClientInterface,
	embeddingRepo repositories.PlaceEmbeddingRepository,
	cfg config.Config,
	log *zap.Logger,
) services.SuggestionServiceInterface {
	return services.NewSuggestionService(ai, catalog, embedder, embeddingRepo, cfg.AI.Timeout, log)
}

type itineraryParams struct {
	fx.In

	Catalog     services.PlaceCatalogInterface
	Classifier  services.CategoryClassifierInterface
	Selector    services.CandidateSelectorInterface
	Geocoder    services.GeocoderInterface
	Composer    services.ItineraryComposerInterface
	Augmenter   services.TransportAugmenterInterface
	Meals       services.MealPlannerInterface
	Optimizer   services.RouteOptimizerInterface
	Editor      services.InteractiveEditorInterface
	Suggestions services.SuggestionServiceInterface
	Store       services.TripStoreInterface
	Generations *mem.GenerationTracker
	Config      config.Config
	Log         *zap.Logger
}

func provideItineraryService(p itineraryParams) services.ItineraryServiceInterface {
	return services.NewItineraryService(services.ItineraryServiceDeps{
		Catalog:     p.Catalog,
		Classifier:  p.Classifier,
		Selector:    p.Selector,
		Geocoder:    p.Geocoder,
		Composer:    p.Composer,
		Augmenter:   p.Augmenter,
		Meals:       p.Meals,
		Optimizer:   p.Optimizer,
		Editor:      p.Editor,
		Suggestions: p.Suggestions,
		Store:       p.Store,
		Generations: p.Generations,
	}, services.PipelineOptions{
		MaxDistanceKm:    p.Config.Planner.MaxDistanceKm,
		OversampleFactor: p.Config.Planner.OversampleFactor,
	}, p.Log)
}
