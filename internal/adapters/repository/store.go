// Package repository keeps job state and ranks finished pair reports.
package repository

import (
	"context"
	"time"

	"github.com/okian/synastry/internal/domain/model"
	"github.com/okian/synastry/internal/domain/synastry"
	"github.com/okian/synastry/internal/domain/types"
)

// Record is the stored state of one job.
type Record struct {
	Job       model.Job            `json:"job"`
	Status    model.JobStatus      `json:"status"`
	Report    *synastry.PairReport `json:"report,omitempty"`
	Error     string               `json:"error,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Store provides read/write access to jobs and the match ranking.
type Store interface {
	// Track registers a queued job. Tracking a known id is a no-op.
	Track(ctx context.Context, job model.Job)
	// Forget drops a job that never made it into the queue.
	Forget(ctx context.Context, jobID string)

	// Save marks the job done and ranks its report.
	Save(ctx context.Context, job model.Job, report synastry.PairReport) error
	// Fail marks the job failed.
	Fail(ctx context.Context, jobID string, cause error)

	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, jobID string) (Record, error)

	// Rank returns the ranked entry of a finished job.
	Rank(ctx context.Context, jobID string) (types.MatchEntry, error)

	// Top returns up to n finished pairs, best first.
	Top(ctx context.Context, n int) ([]types.MatchEntry, error)

	// Count returns the number of ranked reports.
	Count(ctx context.Context) int
}
