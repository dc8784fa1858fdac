package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapboxToken = "pk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/earthquake_1995-2023.csv", cfg.DatasetPath)
	assert.Equal(t, 2025, cfg.ForecastFromYear)
	assert.Equal(t, 2030, cfg.ForecastToYear)
	assert.InDelta(t, 0.2, cfg.ForecastTestSize, 1e-9)
	assert.Equal(t, uint64(42), cfg.ForecastSeed)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "dashboard-page-views", cfg.KafkaPageViewTopic)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATASET_PATH", "/srv/quakes.csv")
	t.Setenv("FORECAST_FROM_YEAR", "2024")
	t.Setenv("FORECAST_TO_YEAR", "2026")
	t.Setenv("FORECAST_TEST_SIZE", "0.25")
	t.Setenv("FORECAST_SEED", "7")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_PAGEVIEW_TOPIC", "views")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/srv/quakes.csv", cfg.DatasetPath)
	assert.Equal(t, 2024, cfg.ForecastFromYear)
	assert.Equal(t, 2026, cfg.ForecastToYear)
	assert.InDelta(t, 0.25, cfg.ForecastTestSize, 1e-9)
	assert.Equal(t, uint64(7), cfg.ForecastSeed)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "views", cfg.KafkaPageViewTopic)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidForecastYears(t *testing.T) {
	t.Setenv("FORECAST_FROM_YEAR", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_FROM_YEAR")
}

func TestLoad_ForecastRangeReversed(t *testing.T) {
	t.Setenv("FORECAST_FROM_YEAR", "2030")
	t.Setenv("FORECAST_TO_YEAR", "2025")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_TO_YEAR")
}

func TestLoad_InvalidTestSize(t *testing.T) {
	for _, v := range []string{"0", "1", "1.5", "abc"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("FORECAST_TEST_SIZE", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "FORECAST_TEST_SIZE")
		})
	}
}

func TestLoad_InvalidSeed(t *testing.T) {
	t.Setenv("FORECAST_SEED", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_SEED")
}

func TestLoad_InvalidMapboxTimeout(t *testing.T) {
	t.Setenv("MAPBOX_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TIMEOUT")
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}

func TestLoad_InvalidMapboxCacheSizeFallsBack(t *testing.T) {
	t.Setenv("MAPBOX_CACHE_SIZE", "-5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}
