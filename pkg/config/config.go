package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/chess-tournament-radar/backend/pkg/logger"
)

// Config carries all process configuration, read once at startup from CTR_*
// environment variables (with optional .env file).
type Config struct {
	Addr             string
	FeedURL          string
	GeocoderURL      string
	CachePath        string
	CacheTTL         time.Duration
	SchedulerEnabled bool
	SchedulerCron    string
}

// FromEnv loads configuration from the environment, applying defaults.
func FromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:             envOr("CTR_ADDR", ":8080"),
		FeedURL:          envOr("CTR_FEED_URL", "https://chess-tournament-radar.github.io/feed/events.json"),
		GeocoderURL:      os.Getenv("CTR_GEOCODER_URL"), // empty = public Nominatim
		CachePath:        envOr("CTR_CACHE_PATH", "data/radar.db"),
		CacheTTL:         24 * time.Hour,
		SchedulerEnabled: os.Getenv("CTR_SCHEDULER_ENABLED") == "true" || os.Getenv("CTR_SCHEDULER_ENABLED") == "1",
		SchedulerCron:    envOr("CTR_SCHEDULER_CRON", "0 6 * * *"),
	}

	if raw := os.Getenv("CTR_CACHE_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil && ttl > 0 {
			cfg.CacheTTL = ttl
		} else {
			logger.Warn("Invalid CTR_CACHE_TTL %q, keeping default 24h", raw)
		}
	}

	if level := os.Getenv("CTR_LOG_LEVEL"); level != "" {
		logger.SetLogLevelFromString(level)
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
