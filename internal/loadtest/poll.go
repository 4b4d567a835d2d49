package loadtest

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/synastry/internal/domain/model"
	"github.com/okian/synastry/internal/domain/types"
	"github.com/okian/synastry/pkg/logger"
)

const pollInterval = 50 * time.Millisecond

// awaitJobs polls every job until it leaves the queued state or the wait
// budget runs out. Finished records are returned by id.
func awaitJobs(ctx context.Context, cfg *Config, c *client, ids []string, stats *Stats) (map[string]JobRecord, error) {
	logger.Get().Info(ctx, "waiting for jobs", logger.Int("jobs", len(ids)))

	ctx, cancel := context.WithTimeout(ctx, cfg.Wait)
	defer cancel()

	var mu sync.Mutex
	out := make(map[string]JobRecord, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, id := range ids {
		g.Go(func() error {
			rec, err := awaitJob(gctx, c, id)
			if err != nil {
				return fmt.Errorf("job %s: %w", id, err)
			}
			mu.Lock()
			out[id] = rec
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, rec := range out {
		if rec.Status == model.JobDone {
			stats.Done++
		} else {
			stats.JobsFailed++
		}
	}
	return out, nil
}

func awaitJob(ctx context.Context, c *client, id string) (JobRecord, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		var rec JobRecord
		if _, err := c.getJSON(ctx, "/jobs/"+url.PathEscape(id), &rec); err != nil {
			return JobRecord{}, err
		}
		if rec.Status != model.JobQueued {
			return rec, nil
		}
		select {
		case <-ctx.Done():
			return JobRecord{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

type matchesResponse struct {
	Matches []types.MatchEntry `json:"matches"`
}

// fetchMatches reads the top n ranked matches.
func fetchMatches(ctx context.Context, c *client, n int, stats *Stats) ([]types.MatchEntry, error) {
	var resp matchesResponse
	if _, err := c.getJSON(ctx, fmt.Sprintf("/matches?limit=%d", n), &resp); err != nil {
		return nil, err
	}
	stats.Matches = len(resp.Matches)
	return resp.Matches, nil
}
