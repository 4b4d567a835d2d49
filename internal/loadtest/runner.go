package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/synastry/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run generates pairs, submits them, waits for scoring and verifies the
// ranked matches against the individual job reports.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	log.Info(ctx, "starting synastry load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("pairs", cfg.NumPairs),
		logger.Int("workers", cfg.Workers),
		logger.Int("topN", cfg.TopN))

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if _, err := c.getJSON(ctx, "/stats", nil); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	pairs := NewGenerator(cfg.Seed).Pairs(cfg.NumPairs)
	stats.PairsGenerated = len(pairs)
	if cfg.OutputFile != "" {
		if err := savePairs(cfg.OutputFile, pairs); err != nil {
			log.Warn(ctx, "failed to save pairs", logger.Error(err))
		}
	}

	ids := submitPairs(ctx, cfg, c, pairs, stats)

	records, err := awaitJobs(ctx, cfg, c, ids, stats)
	if err != nil {
		return stats, fmt.Errorf("waiting for jobs failed: %w", err)
	}

	matches, err := fetchMatches(ctx, c, cfg.TopN, stats)
	if err != nil {
		return stats, fmt.Errorf("matches retrieval failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logStats(ctx, stats)

	if !cfg.SkipVerify {
		if err := verifyMatches(records, matches, cfg.TopN); err != nil {
			return stats, err
		}
	}
	log.Info(ctx, "load test completed")
	return stats, nil
}

// savePairs writes the generated pairs as a JSON array.
func savePairs(filename string, pairs []Pair) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, filePermission)
}

func logStats(ctx context.Context, s *Stats) {
	var perSecond float64
	if s.Duration > 0 {
		perSecond = float64(s.Submitted) / s.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", s.PairsGenerated),
		logger.Int("submitted", s.Submitted),
		logger.Int("accepted", s.Accepted),
		logger.Int("duplicate", s.Duplicate),
		logger.Int("rejected", s.Rejected),
		logger.Int("failed", s.Failed),
		logger.Int("done", s.Done),
		logger.Int("jobsFailed", s.JobsFailed),
		logger.Int("matches", s.Matches),
		logger.String("duration", s.Duration.String()),
		logger.Float64("pairsPerSecond", perSecond))
}
