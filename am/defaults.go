package am

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "plaszyme.db")

	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})
	v.SetDefault("server.requests_per_minute", 120)
	v.SetDefault("server.log_theme", "everforest")

	// Search defaults
	v.SetDefault("search.default_max_results", DefaultMaxResults)
	v.SetDefault("search.max_results_cap", DefaultMaxResultsCap)
	v.SetDefault("search.default_threshold", DefaultThreshold)
	v.SetDefault("search.overfetch_factor", DefaultOverfetchFactor)
	v.SetDefault("search.workers", 1)
	v.SetDefault("search.timeout_seconds", 30)

	// Substrate catalog defaults
	v.SetDefault("substrates.catalog_path", "")
	v.SetDefault("substrates.watch", false)
}
