package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultDatasetPath is read when DATASET_PATH is unset.
const DefaultDatasetPath = "data/earthquake_1995-2023.csv"

// DatasetPathFromEnv returns DATASET_PATH, or DefaultDatasetPath when unset.
func DatasetPathFromEnv() string {
	return sharedcfg.EnvOrDefault("DATASET_PATH", DefaultDatasetPath)
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DatasetPath string

	// Forecast settings for the prediction page.
	ForecastFromYear int
	ForecastToYear   int
	ForecastTestSize float64
	ForecastSeed     uint64

	// Page-view event publishing.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaPageViewTopic string

	// Mapbox country enrichment.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s"))
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	fromYear, err := strconv.Atoi(sharedcfg.EnvOrDefault("FORECAST_FROM_YEAR", "2025"))
	if err != nil {
		return nil, errors.New("invalid FORECAST_FROM_YEAR")
	}
	toYear, err := strconv.Atoi(sharedcfg.EnvOrDefault("FORECAST_TO_YEAR", "2030"))
	if err != nil {
		return nil, errors.New("invalid FORECAST_TO_YEAR")
	}
	if toYear < fromYear {
		return nil, errors.New("FORECAST_TO_YEAR must not be before FORECAST_FROM_YEAR")
	}

	testSize, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("FORECAST_TEST_SIZE", "0.2"), 64)
	if err != nil || testSize <= 0 || testSize >= 1 {
		return nil, errors.New("invalid FORECAST_TEST_SIZE: must be between 0 and 1")
	}

	seed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("FORECAST_SEED", "42"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid FORECAST_SEED")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatasetPath: DatasetPathFromEnv(),

		ForecastFromYear: fromYear,
		ForecastToYear:   toYear,
		ForecastTestSize: testSize,
		ForecastSeed:     seed,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaPageViewTopic: sharedcfg.EnvOrDefault("KAFKA_PAGEVIEW_TOPIC", "dashboard-page-views"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
	}

	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaPageViewTopic == "" {
		return nil, errors.New("KAFKA_PAGEVIEW_TOPIC is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
