package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"iter/internal/config"
	"iter/internal/infra"
	"iter/internal/repositories"
	"iter/internal/services"
	"iter/pkg/utils"
)

func newIndexCmd(logger func() *zap.Logger) *cobra.Command {
	var city string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Embed a city's catalog places for similarity suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			defer func() { _ = log.Sync() }()

			cfg, err := config.Load(true)
			if err != nil {
				return err
			}
			db, err := infra.InitPostgresql(cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			defer infra.ClosePostgresql(db, log)

			if err := infra.RunMigrations(cmd.Context(), db, log); err != nil {
				return err
			}

			var embedder utils.EmbeddingClientInterface = utils.NewHashEmbeddingClient()
			if cfg.AI.OpenAIAPIKey != "" {
				embedder = utils.NewOpenAIEmbeddingClient(cfg.AI.OpenAIAPIKey, cfg.AI.EmbeddingModel)
			}

			catalog := services.NewPlaceService(repositories.NewPlaceRepository(db), log)
			suggestions := services.NewSuggestionService(nil, catalog, embedder,
				repositories.NewPlaceEmbeddingRepository(db), cfg.AI.Timeout, log)

			n, err := suggestions.IndexPlaces(cmd.Context(), city)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d places in %s\n", n, city)
			return nil
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "City whose places are embedded (required)")
	_ = cmd.MarkFlagRequired("city")
	return cmd
}
