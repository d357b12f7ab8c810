package cache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"iter/internal/models/itinerary_models"
	mem "iter/pkg/memcache"
)

const sweepInterval = 10 * time.Minute

var Module = fx.Options(
	fx.Provide(
		mem.NewGenerationTracker,
		mem.NewTTLCache[string, itinerary_models.Coordinate],
	),
	fx.Invoke(sweepGeocodeCache),
)

func sweepGeocodeCache(lc fx.Lifecycle, cache *mem.TTLCache[string, itinerary_models.Coordinate], log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if n := cache.Sweep(); n > 0 {
							log.Debug("geocode cache swept", zap.Int("evicted", n))
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
