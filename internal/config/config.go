package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	WeatherAPIKey string

	// HTTPTimeout bounds outbound provider calls.
	HTTPTimeout time.Duration

	// CodebookPath locates the Open-Meteo weather-code table.
	CodebookPath string

	// Access-log database and retention.
	AccessLogPath          string
	AccessLogMaxAge        time.Duration // 0 = keep forever
	AccessLogSweepInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.CodebookPath = getenvDefault("CODEBOOK_PATH", "open_meteo_weather_codes.csv")
	cfg.AccessLogPath = getenvDefault("ACCESS_LOG_PATH", "access_log.db")

	maxAgeStr := getenvDefault("ACCESS_LOG_MAX_AGE", "720h") // 30 days
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_LOG_MAX_AGE: %w", err)
	}
	cfg.AccessLogMaxAge = maxAge

	sweepStr := getenvDefault("ACCESS_LOG_SWEEP_INTERVAL", "1h")
	sweep, err := time.ParseDuration(sweepStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_LOG_SWEEP_INTERVAL: %w", err)
	}
	cfg.AccessLogSweepInterval = sweep

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
