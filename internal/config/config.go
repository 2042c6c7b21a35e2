package config

import (
	"fmt"
	"time"
)

// Defaults for the aggregation pipeline.
const (
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultCacheTTL        = 12 * time.Hour // upstream models refresh every 6-12h
	DefaultForecastDays    = 7
	DefaultPort            = "8080"
	DefaultRefreshInterval = 6 * time.Hour
	DefaultStoreMaxHistory = 8
	DefaultStoreMaxAge     = 48 * time.Hour
)

// AppConfig carries every knob the CLI and server wire through the
// application. The CLI populates it from flags, env and an optional config
// file; tests construct literals.
type AppConfig struct {
	// HTTPTimeout bounds every outbound provider request.
	HTTPTimeout time.Duration

	// Response cache. CacheEnabled false forces every call to the network.
	CacheEnabled bool
	CachePath    string
	CacheTTL     time.Duration

	// ResortsPath points at a catalog JSON file; empty means the embedded
	// catalog.
	ResortsPath string

	// GeocoderAPIKey enables coordinate backfill for catalog entries
	// without coordinates.
	GeocoderAPIKey string

	ForecastDays int

	// Server mode.
	Port            string
	RefreshInterval time.Duration
	TrackedResorts  []string // slugs refreshed by the scheduler
	StoreMaxHistory int
	StoreMaxAge     time.Duration
}

// Default returns an AppConfig with every field at its default.
func Default() AppConfig {
	return AppConfig{
		HTTPTimeout:     DefaultHTTPTimeout,
		CacheEnabled:    true,
		CacheTTL:        DefaultCacheTTL,
		ForecastDays:    DefaultForecastDays,
		Port:            DefaultPort,
		RefreshInterval: DefaultRefreshInterval,
		StoreMaxHistory: DefaultStoreMaxHistory,
		StoreMaxAge:     DefaultStoreMaxAge,
	}
}

// Validate rejects values the pipeline cannot run with.
func (c AppConfig) Validate() error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.ForecastDays <= 0 {
		return fmt.Errorf("forecast days must be positive")
	}
	if c.CacheEnabled && c.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive when caching is enabled")
	}
	return nil
}
