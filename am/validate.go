package am

import (
	"github.com/teranos/plaszyme/errors"
)

var validThresholds = map[string]bool{
	"low":       true,
	"medium":    true,
	"high":      true,
	"very_high": true,
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Database path is optional - empty falls back to "plaszyme.db"

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestsPerMinute < 0 {
		return errors.Newf("server.requests_per_minute must be >= 0, got %d", c.Server.RequestsPerMinute)
	}

	if c.Search.DefaultMaxResults < 0 {
		return errors.Newf("search.default_max_results must be >= 0, got %d", c.Search.DefaultMaxResults)
	}
	if c.Search.MaxResultsCap < 0 {
		return errors.Newf("search.max_results_cap must be >= 0, got %d", c.Search.MaxResultsCap)
	}
	if c.Search.MaxResultsCap > 0 && c.Search.DefaultMaxResults > c.Search.MaxResultsCap {
		return errors.Newf("search.default_max_results (%d) exceeds search.max_results_cap (%d)",
			c.Search.DefaultMaxResults, c.Search.MaxResultsCap)
	}
	if c.Search.DefaultThreshold != "" && !validThresholds[c.Search.DefaultThreshold] {
		return errors.WithHint(
			errors.Newf("search.default_threshold %q is not a known tier", c.Search.DefaultThreshold),
			"use one of: low, medium, high, very_high")
	}
	if c.Search.OverfetchFactor < 0 {
		return errors.Newf("search.overfetch_factor must be >= 0, got %d", c.Search.OverfetchFactor)
	}
	if c.Search.Workers < 0 {
		return errors.Newf("search.workers must be >= 0, got %d", c.Search.Workers)
	}
	if c.Search.TimeoutSeconds < 0 {
		return errors.Newf("search.timeout_seconds must be >= 0, got %d", c.Search.TimeoutSeconds)
	}

	if c.Substrates.Watch && c.Substrates.CatalogPath == "" {
		return errors.New("substrates.watch requires substrates.catalog_path")
	}

	return nil
}
