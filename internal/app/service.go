// Package service wires the scorer, job queue, workers and report store
// behind the operations the HTTP API and CLI need.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/synastry/internal/adapters/mq/queue"
	workerpool "github.com/okian/synastry/internal/adapters/mq/worker"
	repository "github.com/okian/synastry/internal/adapters/repository"
	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/dedupe"
	"github.com/okian/synastry/internal/domain/kuja"
	"github.com/okian/synastry/internal/domain/model"
	"github.com/okian/synastry/internal/domain/numerology"
	"github.com/okian/synastry/internal/domain/strength"
	"github.com/okian/synastry/internal/domain/synastry"
	"github.com/okian/synastry/internal/domain/types"
	"github.com/okian/synastry/pkg/logger"
	"github.com/okian/synastry/pkg/metrics"
)

const shutdownTimeout = 30 * time.Second

// Service implements the API dependencies for pair scoring.
type Service struct {
	mu sync.RWMutex

	scorer *synastry.Scorer
	cache  *reportCache

	store   repository.Store
	deduper dedupe.Deduper
	queue   jobqueue.Queue
	pool    *workerpool.Pool

	workerCount     int
	queueSize       int
	dedupeSize      int
	reportCacheSize int
	scorerOpts      []synastry.Option
	now             func() time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many job ids are remembered. Zero or less is unbounded.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		s.dedupeSize = size
	}
}

// WithReportCacheSize bounds the pair report memo. Zero disables it.
func WithReportCacheSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.reportCacheSize = size
		}
	}
}

// WithScorerOptions configures the synastry scorer.
func WithScorerOptions(opts ...synastry.Option) Option {
	return func(s *Service) {
		s.scorerOpts = append(s.scorerOpts, opts...)
	}
}

// WithStore replaces the in-memory report store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock overrides the time source for job timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Scoring works right away; jobs need Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       10_000,
		dedupeSize:      100_000,
		reportCacheSize: 4_096,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.scorer = synastry.NewScorer(s.scorerOpts...)
	s.cache = newReportCache(s.reportCacheSize)
	if s.store == nil {
		s.store = repository.NewTreapStore(repository.WithClock(s.now))
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start launches the queue and worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "synastry service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("report_cache_size", s.reportCacheSize),
	)
	return nil
}

// Stop drains queued jobs and stops the workers.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping synastry service...")

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	err := s.pool.Shutdown(ctx)

	s.started = false
	s.logger.Info(ctx, "synastry service stopped")
	return err
}

// ScorePair returns both directional reports, memoised by input.
func (s *Service) ScorePair(ctx context.Context, a, b chart.Person) (synastry.PairReport, error) {
	key, cacheable := pairKey(a, b)
	if cacheable {
		if r, ok := s.cache.get(key); ok {
			return r, nil
		}
	}

	start := time.Now()
	r, err := s.scorer.ScorePair(ctx, a, b)
	if err != nil {
		return synastry.PairReport{}, err
	}
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	observe(r.AtoB)
	observe(r.BtoA)

	if cacheable {
		s.cache.add(key, r)
	}
	return r, nil
}

func observe(r synastry.Report) { //nolint:gocritic // hugeParam: read-only
	metrics.RecordPairScored(r.FinalPercent)
	for _, sk := range r.Skipped {
		metrics.RecordModuleSkipped(string(sk.Key), sk.Reason)
	}
	if r.KujaKind != kuja.KindNone {
		metrics.RecordKujaApplied(string(r.KujaKind))
	}
}

// SubmitResult describes an accepted job.
type SubmitResult struct {
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate"`
}

// Submit queues a pair for asynchronous scoring. An empty id is replaced
// by a random UUID; a repeated id is acknowledged without queueing again.
func (s *Service) Submit(ctx context.Context, job model.Job) (SubmitResult, error) { //nolint:gocritic // hugeParam: jobs travel by value
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return SubmitResult{}, ErrNotStarted
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = s.now()
	}

	if s.deduper.SeenAndRecord(ctx, job.ID) {
		metrics.RecordJobDuplicate()
		s.logger.Debug(ctx, "duplicate job", logger.String("job_id", job.ID))
		return SubmitResult{ID: job.ID, Duplicate: true}, nil
	}

	s.store.Track(ctx, job)
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.deduper.Unrecord(ctx, job.ID)
		s.store.Forget(ctx, job.ID)
		if errors.Is(err, jobqueue.ErrFull) {
			return SubmitResult{}, fmt.Errorf("%w: %d jobs pending", ErrBackpressure, s.queue.Len())
		}
		if errors.Is(err, jobqueue.ErrClosed) {
			return SubmitResult{}, ErrNotStarted
		}
		return SubmitResult{}, err
	}

	metrics.RecordJobSubmitted()
	return SubmitResult{ID: job.ID}, nil
}

// Report returns the state of a job, with its report once scored.
func (s *Service) Report(ctx context.Context, jobID string) (repository.Record, error) {
	return s.store.Get(ctx, jobID)
}

// Rank returns the ranked entry of a finished job.
func (s *Service) Rank(ctx context.Context, jobID string) (types.MatchEntry, error) {
	return s.store.Rank(ctx, jobID)
}

// Top returns the best n finished pairs.
func (s *Service) Top(ctx context.Context, n int) ([]types.MatchEntry, error) {
	return s.store.Top(ctx, n)
}

// Numerology compares two birth dates in both directions.
func (s *Service) Numerology(_ context.Context, dobA, dobB string) (numerology.Pair, error) {
	return numerology.ComputePair(dobA, dobB)
}

// StrengthReport is the per-planet strength breakdown of one chart.
type StrengthReport struct {
	Planets []strength.PlanetStrength `json:"planets" yaml:"planets"`
	Karakas *strength.Karakas         `json:"karakas,omitempty" yaml:"karakas,omitempty"`
	Doshas  []kuja.Dosha              `json:"doshas,omitempty" yaml:"doshas,omitempty"`
}

// Strengths evaluates every planet of c.
func (s *Service) Strengths(_ context.Context, c chart.Chart) StrengthReport {
	out := StrengthReport{
		Planets: strength.ChartStrengths(c),
		Doshas:  kuja.Detect(c),
	}
	if k, ok := strength.FindKarakas(c); ok {
		out.Karakas = &k
	}
	return out
}

// Weights exposes the active module weights.
func (s *Service) Weights() synastry.Weights {
	return s.scorer.Weights()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"dedupeSize":      s.dedupeSize,
		"reportCacheSize": s.reportCacheSize,
		"cachedReports":   s.cache.len(),
		"seenJobs":        s.deduper.Size(),
		"rankedReports":   s.store.Count(ctx),
	}
	if s.started {
		n := s.queue.Len()
		stats["queueLength"] = n
		metrics.UpdateQueueSize(n)
	}
	return stats
}
