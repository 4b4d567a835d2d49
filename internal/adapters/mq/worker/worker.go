// Package worker scores queued jobs and hands the reports to a sink.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/model"
	"github.com/okian/synastry/internal/domain/synastry"
	"github.com/okian/synastry/pkg/logger"
	"github.com/okian/synastry/pkg/metrics"
)

const defaultWorkerMultiplier = 2

// Scorer produces both directional reports for a pair.
type Scorer interface {
	ScorePair(ctx context.Context, a, b chart.Person) (synastry.PairReport, error)
}

// Sink receives the outcome of each job.
type Sink interface {
	Save(ctx context.Context, job model.Job, report synastry.PairReport) error
	Fail(ctx context.Context, jobID string, cause error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Job
}

// InMemoryWorker reads jobs from a queue until it is drained or stopped.
type InMemoryWorker struct {
	queue  Queue
	scorer Scorer
	sink   Sink
	name   string
	active *atomic.Int64

	done   chan struct{}
	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, scorer Scorer, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:  q,
		scorer: scorer,
		sink:   sink,
		name:   "worker",
		active: new(atomic.Int64),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes jobs until the queue closes or ctx ends.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	for job := range w.queue.Dequeue(ctx) {
		if err := w.process(ctx, job); err != nil {
			w.logger.Error(ctx, "job failed", logger.String("job_id", job.ID), logger.Error(err))
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, job model.Job) error { //nolint:gocritic // hugeParam: jobs travel by value
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	start := time.Now()
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	report, err := w.scorer.ScorePair(ctx, job.A, job.B)
	if err != nil {
		w.fail(ctx, job.ID, "scoring_error", err)
		return fmt.Errorf("score job %s: %w", job.ID, err)
	}

	if err := w.sink.Save(ctx, job, report); err != nil {
		w.fail(ctx, job.ID, "store_error", err)
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}

	metrics.RecordJobCompleted()
	w.logger.Debug(ctx, "job scored",
		logger.String("job_id", job.ID),
		logger.Int("a_to_b", report.AtoB.FinalPercent),
		logger.Int("b_to_a", report.BtoA.FinalPercent),
	)
	return nil
}

func (w *InMemoryWorker) fail(ctx context.Context, id, kind string, err error) {
	metrics.RecordJobFailed()
	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", kind)
	w.sink.Fail(ctx, id, err)
}

// Pool runs a fixed number of workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	cancel context.CancelFunc
	once   sync.Once
	logger logger.Logger
}

// NewPool creates a pool. workerCount < 1 picks a CPU-based default.
func NewPool(workerCount int, q Queue, scorer Scorer, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	active := new(atomic.Int64)
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, scorer, sink,
			WithName("worker-"+strconv.Itoa(i)),
			withActiveCounter(active),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue and waits for workers to drain it. When ctx
// expires first the remaining jobs are abandoned.
func (p *Pool) Shutdown(ctx context.Context) error {
	var err error
	p.once.Do(func() {
		if closer, ok := p.queue.(interface{ Close() error }); ok {
			if cerr := closer.Close(); cerr != nil {
				p.logger.Error(ctx, "error closing queue", logger.Error(cerr))
			}
		}

		for i, w := range p.workers {
			select {
			case <-w.done:
			case <-ctx.Done():
				p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
				err = fmt.Errorf("worker pool shutdown: %w", ctx.Err())
			}
			if err != nil {
				break
			}
		}
		if p.cancel != nil {
			p.cancel()
		}
	})
	return err
}
