package loadtest

import (
	"context"
	"net/http"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/okian/synastry/pkg/logger"
)

// submitPairs posts every pair to /jobs with at most cfg.Workers requests in
// flight and returns the ids the server accepted.
func submitPairs(ctx context.Context, cfg *Config, c *client, pairs []Pair, stats *Stats) []string {
	log := logger.Get()
	log.Info(ctx, "submitting pairs", logger.Int("pairs", len(pairs)), logger.Int("workers", cfg.Workers))

	var accepted, duplicate, rejected, failed atomic.Int64
	ids := make([]string, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range pairs {
		g.Go(func() error {
			var ack SubmitResponse
			status, err := c.postJSON(gctx, "/jobs", pairs[i], http.StatusAccepted, &ack)
			switch {
			case err == nil && ack.Duplicate:
				duplicate.Add(1)
			case err == nil:
				accepted.Add(1)
				ids[i] = ack.ID
			case status == http.StatusTooManyRequests:
				rejected.Add(1)
			default:
				failed.Add(1)
				if cfg.Verbose {
					log.Warn(gctx, "submit failed", logger.String("id", pairs[i].ID), logger.Error(err))
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.Submitted = len(pairs)
	stats.Accepted = int(accepted.Load())
	stats.Duplicate = int(duplicate.Load())
	stats.Rejected = int(rejected.Load())
	stats.Failed = int(failed.Load())

	out := make([]string, 0, stats.Accepted)
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	log.Info(ctx, "submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))
	return out
}
