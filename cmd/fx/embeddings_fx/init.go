package embeddings_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"iter/internal/config"
	"iter/internal/repositories"
	"iter/pkg/utils"
)

var Module = fx.Provide(
	provideEmbeddingClient,
	repositories.NewPlaceEmbeddingRepository)

func provideEmbeddingClient(cfg config.Config, log *zap.Logger) utils.EmbeddingClientInterface {
	if cfg.AI.OpenAIAPIKey == "" {
		log.Info("OPENAI_API_KEY not set, using hashed embeddings")
		return utils.NewHashEmbeddingClient()
	}
	return utils.NewOpenAIEmbeddingClient(cfg.AI.OpenAIAPIKey, cfg.AI.EmbeddingModel)
}
