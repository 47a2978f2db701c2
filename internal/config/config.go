// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TargetCountries are the markets served directly, in priority order.
	TargetCountries []string `koanf:"target_countries"`

	// FallbackCountries broaden the search when the user is outside
	// every target country.
	FallbackCountries []string `koanf:"fallback_countries"`

	// DefaultCountry is assumed when a posting carries no country.
	DefaultCountry string `koanf:"default_country"`

	// Provider credentials. An empty credential disables that provider.
	AdzunaAppID   string `koanf:"adzuna_app_id"`
	AdzunaAppKey  string `koanf:"adzuna_app_key"`
	JSearchAPIKey string `koanf:"jsearch_api_key"`
	JoobleAPIKey  string `koanf:"jooble_api_key"`

	// SQLitePath locates the job database. Empty selects the in-memory
	// store.
	SQLitePath string `koanf:"sqlite_path"`

	// RedisAddr selects the Redis search cache when non-empty; otherwise
	// the bounded in-process cache is used.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// CacheTTLSeconds bounds search-response cache entries.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// CacheMaxEntries bounds the in-process cache size.
	CacheMaxEntries int `koanf:"cache_max_entries"`

	// DefaultLimit and MaxLimit bound the search page size.
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// IngestWorkerCount sets the number of ingest pipeline workers.
	IngestWorkerCount int `koanf:"ingest_worker_count"`

	// IngestQueueSize bounds the in-memory raw-job queue.
	IngestQueueSize int `koanf:"ingest_queue_size"`

	// RefreshSpec is a cron expression for the background ingest loop.
	// Empty disables scheduled refresh.
	RefreshSpec string `koanf:"refresh_spec"`

	// RefreshQueries are the searches the scheduler re-runs.
	RefreshQueries []string `koanf:"refresh_queries"`

	// Ranking factor weights. They should sum to 1.0.
	WeightKeyword   float64 `koanf:"weight_keyword"`
	WeightLocation  float64 `koanf:"weight_location"`
	WeightFreshness float64 `koanf:"weight_freshness"`
	WeightHistory   float64 `koanf:"weight_history"`

	// SampleSeed seeds the synthetic filler generator.
	SampleSeed int64 `koanf:"sample_seed"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		TargetCountries:   []string{"IN", "US", "GB", "AE"},
		FallbackCountries: []string{"CA", "AU", "DE", "FR", "SG"},
		DefaultCountry:    "IN",
		CacheTTLSeconds:   300,
		CacheMaxEntries:   1000,
		DefaultLimit:      20,
		MaxLimit:          100,
		IngestWorkerCount: runtime.NumCPU() * 2,
		IngestQueueSize:   10_000,
		RefreshQueries:    []string{"software developer"},
		WeightKeyword:     0.4,
		WeightLocation:    0.3,
		WeightFreshness:   0.2,
		WeightHistory:     0.1,
		SampleSeed:        1,
	}
}
