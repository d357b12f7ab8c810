// Package config loads itinerary service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every tunable of the API server and the offline CLI.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	// DatabaseURL is the Postgres connection string. Required by the server.
	DatabaseURL string

	// JWTSecret enables bearer-token auth on trip routes when non-empty.
	JWTSecret string

	AI      AIConfig
	Maps    MapsConfig
	Planner PlannerConfig

	CORSOrigins []string
}

type AIConfig struct {
	// Provider is one of gemini, openai or none.
	Provider       string
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	EmbeddingModel string
	Timeout        time.Duration
	MaxAttempts    int
}

// Enabled reports whether an AI provider has the key it needs.
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case "gemini":
		return c.GeminiAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	default:
		return false
	}
}

type MapsConfig struct {
	MapboxToken    string
	PlacesAPIKey   string
	RoutingTimeout time.Duration
	SearchTimeout  time.Duration
}

type PlannerConfig struct {
	MealSearchRadiusM int
	MaxDistanceKm     float64
	OversampleFactor  int
	MaxAICandidates   int
}

// Load reads configuration from the environment. DatabaseURL is only
// enforced when requireDB is set so the CLI can run without a database.
func Load(requireDB bool) (Config, error) {
	var errs []string

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("POSTGRES_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "*")),
		AI: AIConfig{
			Provider:       strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
			GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
			GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Maps: MapsConfig{
			MapboxToken:  os.Getenv("MAPBOX_ACCESS_TOKEN"),
			PlacesAPIKey: os.Getenv("PLACES_API_KEY"),
		},
	}

	if requireDB && cfg.DatabaseURL == "" {
		errs = append(errs, "POSTGRES_URL is required")
	}

	switch cfg.AI.Provider {
	case "gemini", "openai", "none":
	default:
		errs = append(errs, fmt.Sprintf("AI_PROVIDER must be gemini, openai or none (got %q)", cfg.AI.Provider))
	}

	cfg.AI.Timeout = durationEnv("AI_TIMEOUT", 30*time.Second, &errs)
	cfg.AI.MaxAttempts = intEnv("AI_MAX_ATTEMPTS", 2, &errs)
	cfg.Maps.RoutingTimeout = durationEnv("ROUTING_TIMEOUT", 10*time.Second, &errs)
	cfg.Maps.SearchTimeout = durationEnv("SEARCH_TIMEOUT", 10*time.Second, &errs)
	cfg.Planner.MealSearchRadiusM = intEnv("MEAL_SEARCH_RADIUS_M", 800, &errs)
	cfg.Planner.MaxDistanceKm = floatEnv("MAX_DISTANCE_KM", 15, &errs)
	cfg.Planner.OversampleFactor = intEnv("OVERSAMPLE_FACTOR", 2, &errs)
	cfg.Planner.MaxAICandidates = intEnv("MAX_AI_CANDIDATES", 20, &errs)

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// IsDevelopment switches the logger and gin into their verbose modes.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int, errs *[]string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		*errs = append(*errs, fmt.Sprintf("%s must be a positive integer", key))
		return fallback
	}
	return v
}

func floatEnv(key string, fallback float64, errs *[]string) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		*errs = append(*errs, fmt.Sprintf("%s must be a positive number", key))
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration, errs *[]string) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		*errs = append(*errs, fmt.Sprintf("%s must be a positive duration", key))
		return fallback
	}
	return v
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
