// Package config defines service configuration and its loading.
package config

import (
	"fmt"
	"math"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many job ids are remembered for idempotency.
	DedupeSize int `koanf:"dedupe_size"`

	// ReportCacheSize bounds the LRU of computed pair reports. Zero disables it.
	ReportCacheSize int `koanf:"report_cache_size"`

	// MaxMatchesLimit caps GET /matches?limit.
	MaxMatchesLimit int `koanf:"max_matches_limit"`

	// ModuleWeights overrides the weight of individual scoring modules.
	ModuleWeights map[string]float64 `koanf:"module_weights"`

	// KujaPenaltySingle and KujaPenaltyBoth are percentage points deducted
	// when one or both partners carry kuja-dosha.
	KujaPenaltySingle float64 `koanf:"kuja_penalty_single"`
	KujaPenaltyBoth   float64 `koanf:"kuja_penalty_both"`

	// SunMoonBonus is added when a Sun/Moon cross shares a house.
	SunMoonBonus float64 `koanf:"sun_moon_bonus"`

	// RenormalizeBase divides the base percent by the weight of the modules
	// that ran. When false, omitted modules count as zero.
	RenormalizeBase bool `koanf:"renormalize_base"`

	// AscendantTablePath points at an external ascendant table. Empty uses
	// the embedded one.
	AscendantTablePath string `koanf:"ascendant_table_path"`
}

// New returns a Config filled with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU() * 2,
		DedupeSize:        100_000,
		ReportCacheSize:   4_096,
		MaxMatchesLimit:   100,
		ModuleWeights:     map[string]float64{},
		KujaPenaltySingle: 12,
		KujaPenaltyBoth:   6,
		SunMoonBonus:      5,
		RenormalizeBase:   true,
	}
}

// Validate checks ranges and relations between fields.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.MaxMatchesLimit <= 0:
		return fmt.Errorf("%w: max_matches_limit must be positive", ErrInvalidConfig)
	case c.ReportCacheSize < 0:
		return fmt.Errorf("%w: report_cache_size must not be negative", ErrInvalidConfig)
	case c.KujaPenaltySingle < 0 || c.KujaPenaltyBoth < 0:
		return fmt.Errorf("%w: kuja penalties must not be negative", ErrInvalidConfig)
	case c.KujaPenaltyBoth > c.KujaPenaltySingle:
		return fmt.Errorf("%w: kuja_penalty_both must not exceed kuja_penalty_single", ErrInvalidConfig)
	}
	for k, w := range c.ModuleWeights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight of %q must be a non-negative number", ErrInvalidConfig, k)
		}
	}
	return nil
}
