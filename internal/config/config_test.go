package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/flightsearch/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"RAPIDAPI_KEY", "RAPIDAPI_HOST", "SKY_API_BASE_URL", "CURRENCY", "REQUEST_TIMEOUT",
		"API_RATE_LIMIT_RPS", "API_RATE_LIMIT_BURST", "LOG_FILE", "METRICS_ADDR", "MOCK_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := config.Load()

	assert.Equal(t, config.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, config.DefaultHost, cfg.RapidAPIHost)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, "flightsearch.log", cfg.LogFile)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, "8090", cfg.MockPort)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RAPIDAPI_KEY", "secret")
	t.Setenv("SKY_API_BASE_URL", "http://localhost:8090/api/v1/flights")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("API_RATE_LIMIT_RPS", "0.5")
	t.Setenv("API_RATE_LIMIT_BURST", "2")
	t.Setenv("METRICS_ADDR", ":9100")

	cfg := config.Load()

	assert.Equal(t, "secret", cfg.RapidAPIKey)
	assert.Equal(t, "http://localhost:8090/api/v1/flights", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
	assert.Equal(t, 2, cfg.RateLimitBurst)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("API_RATE_LIMIT_BURST", "many")

	cfg := config.Load()

	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.RateLimitBurst)
}
