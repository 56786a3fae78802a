package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Port the HTTP shell listens on.
	Port string

	// HTTPTimeout bounds each outbound request to SMHI.
	HTTPTimeout time.Duration

	// CacheTTL controls how long a fetched payload stays valid per
	// coordinate before the next request hits upstream again.
	CacheTTL time.Duration

	// DefaultWindowHours is the forward-looking window applied when the
	// request does not specify one.
	DefaultWindowHours int

	// Warm-cache prefetching of the preset locations.
	PrefetchEnabled  bool
	PrefetchInterval time.Duration

	// GeocoderAPIKey enables place-name resolution when set.
	GeocoderAPIKey string

	// SMHIBaseURL overrides the upstream endpoint, mainly for tests.
	SMHIBaseURL string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.SMHIBaseURL = os.Getenv("SMHI_BASE_URL")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	// Matches the 600 second result cache of the original dashboard.
	ttl, err := getenvDuration("CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = ttl

	cfg.DefaultWindowHours = getenvInt("DEFAULT_WINDOW_HOURS", 48)

	cfg.PrefetchEnabled = getenvBool("PREFETCH_ENABLED", false)
	interval, err := getenvDuration("PREFETCH_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	cfg.PrefetchInterval = interval

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
