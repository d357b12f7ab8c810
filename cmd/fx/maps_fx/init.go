package maps_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"iter/internal/config"
	"iter/internal/models/itinerary_models"
	"iter/internal/services"
	mem "iter/pkg/memcache"
)

var Module = fx.Provide(
	provideRouting,
	provideGeocoder,
	provideRestaurantSearch)

// Each provider returns a nil interface when its key is missing so the
// engine components fall back to their offline behaviour.

func provideRouting(cfg config.Config, log *zap.Logger) services.RoutingServiceInterface {
	if cfg.Maps.MapboxToken == "" {
		log.Warn("MAPBOX_ACCESS_TOKEN not set, transport uses straight-line estimates")
		return nil
	}
	return services.NewMapboxRoutingClient(cfg.Maps.MapboxToken, cfg.Maps.RoutingTimeout)
}

func provideGeocoder(cfg config.Config, cache *mem.TTLCache[string, itinerary_models.Coordinate]) services.GeocoderInterface {
	if cfg.Maps.MapboxToken == "" {
		return nil
	}
	return services.NewMapboxGeocoder(cfg.Maps.MapboxToken, cfg.Maps.RoutingTimeout, cache)
}

func provideRestaurantSearch(cfg config.Config, log *zap.Logger) services.RestaurantSearchInterface {
	if cfg.Maps.PlacesAPIKey == "" {
		log.Warn("PLACES_API_KEY not set, trips are generated without meal suggestions")
		return nil
	}
	return services.NewGooglePlacesSearch(cfg.Maps.PlacesAPIKey, cfg.Maps.SearchTimeout)
}
