package config_fx

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"iter/internal/config"
)

var Module = fx.Provide(provideConfig)

func provideConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading process environment")
	}
	return config.Load(true)
}
