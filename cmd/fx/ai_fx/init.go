package ai_fx

import (
	"context"
	"errors"
	"io"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"iter/internal/config"
	"iter/pkg/utils"
)

var Module = fx.Provide(provideAIClient)

// provideAIClient yields a nil client when no provider is configured; the
// composer and suggestion service then run their fallbacks.
func provideAIClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (utils.ItineraryAIClient, error) {
	client, err := utils.NewItineraryAIClient(context.Background(), utils.AIClientOptions{
		Provider:     cfg.AI.Provider,
		GeminiAPIKey: cfg.AI.GeminiAPIKey,
		GeminiModel:  cfg.AI.GeminiModel,
		OpenAIAPIKey: cfg.AI.OpenAIAPIKey,
		OpenAIModel:  cfg.AI.OpenAIModel,
	})
	if errors.Is(err, utils.ErrAINotConfigured) {
		log.Warn("ai provider not configured, itineraries use the round-robin schedule",
			zap.String("provider", cfg.AI.Provider))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info("ai provider ready", zap.String("provider", cfg.AI.Provider))
	if closer, ok := client.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})
	}
	return client, nil
}
