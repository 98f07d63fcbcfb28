package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL = "https://sky-scrapper.p.rapidapi.com/api/v1/flights"
	DefaultHost    = "sky-scrapper.p.rapidapi.com"
)

type Config struct {
	// Upstream
	RapidAPIKey    string
	RapidAPIHost   string
	BaseURL        string
	Currency       string
	Market         string
	CountryCode    string
	RequestTimeout time.Duration

	// Client-side quota
	RateLimitRPS   float64
	RateLimitBurst int

	// Observability
	LogFile     string
	LogLevel    string
	MetricsAddr string

	// Mock upstream
	MockPort   string
	MockAPIKey string
}

// Load reads configuration from the environment, after an optional .env
// file in the working directory.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		RapidAPIKey:    getEnv("RAPIDAPI_KEY", ""),
		RapidAPIHost:   getEnv("RAPIDAPI_HOST", DefaultHost),
		BaseURL:        getEnv("SKY_API_BASE_URL", DefaultBaseURL),
		Currency:       getEnv("CURRENCY", "USD"),
		Market:         getEnv("MARKET", "en-US"),
		CountryCode:    getEnv("COUNTRY_CODE", "US"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),

		RateLimitRPS:   getEnvFloat("API_RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("API_RATE_LIMIT_BURST", 5),

		LogFile:     getEnv("LOG_FILE", "flightsearch.log"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MetricsAddr: getEnv("METRICS_ADDR", ""),

		MockPort:   getEnv("MOCK_PORT", "8090"),
		MockAPIKey: getEnv("MOCK_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
