package service

import (
	"fmt"

	"github.com/okian/synastry/internal/config"
	"github.com/okian/synastry/internal/domain/ascendant"
	"github.com/okian/synastry/internal/domain/kuja"
	"github.com/okian/synastry/internal/domain/synastry"
)

// OptionsFromConfig maps loaded configuration onto service options.
func OptionsFromConfig(cfg *config.Config) ([]Option, error) {
	scorerOpts, err := ScorerOptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithReportCacheSize(cfg.ReportCacheSize),
		WithScorerOptions(scorerOpts...),
	}, nil
}

// ScorerOptionsFromConfig builds scorer options: module weights, kuja
// penalties, the Sun/Moon bonus and an optional external ascendant table.
func ScorerOptionsFromConfig(cfg *config.Config) ([]synastry.Option, error) {
	weights, err := synastry.ParseWeights(cfg.ModuleWeights)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	opts := []synastry.Option{
		synastry.WithWeights(weights),
		synastry.WithKujaPenalties(kuja.Penalties{Single: cfg.KujaPenaltySingle, Both: cfg.KujaPenaltyBoth}),
		synastry.WithSunMoonBonus(cfg.SunMoonBonus),
		synastry.WithRenormalizedBase(cfg.RenormalizeBase),
	}
	if cfg.AscendantTablePath != "" {
		table, err := ascendant.LoadFile(cfg.AscendantTablePath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, synastry.WithAscendantTable(table))
	}
	return opts, nil
}
