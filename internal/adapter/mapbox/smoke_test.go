//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	// Tohoku 2011 epicentre is offshore; use Sendai instead.
	result, err := c.ReverseGeocode(context.Background(), 38.2682, 140.8694)
	require.NoError(t, err)

	assert.Equal(t, "Japan", result.Country)
	assert.Equal(t, "JP", result.CountryCode)
}

func TestSmoke_ReverseGeocode_OpenOcean(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ReverseGeocode(context.Background(), 0.0, -140.0)
	require.NoError(t, err)
	assert.Empty(t, result.Country)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())

	r1, err := cached.ReverseGeocode(context.Background(), -33.4489, -70.6693)
	require.NoError(t, err)
	assert.Equal(t, "Chile", r1.Country)

	r2, err := cached.ReverseGeocode(context.Background(), -33.4489, -70.6693)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
