package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	worker "github.com/okian/synastry/internal/adapters/mq/worker"
	"github.com/okian/synastry/internal/domain/chart"
	model "github.com/okian/synastry/internal/domain/model"
	"github.com/okian/synastry/internal/domain/synastry"
	logging "github.com/okian/synastry/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	jobs chan model.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan model.Job, 64)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan model.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

// mockScorer fails pairs whose first person is named "bad".
type mockScorer struct{}

func (mockScorer) ScorePair(_ context.Context, a, _ chart.Person) (synastry.PairReport, error) {
	if a.Profile.Name == "bad" {
		return synastry.PairReport{}, errors.New("scoring error")
	}
	return synastry.PairReport{
		AtoB: synastry.Report{FinalPercent: 70},
		BtoA: synastry.Report{FinalPercent: 60},
	}, nil
}

type mockSink struct {
	mu      sync.Mutex
	saved   map[string]synastry.PairReport
	failed  map[string]error
	saveErr error
}

func newMockSink() *mockSink {
	return &mockSink{saved: map[string]synastry.PairReport{}, failed: map[string]error{}}
}

func (s *mockSink) Save(_ context.Context, job model.Job, r synastry.PairReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[job.ID] = r
	return nil
}

func (s *mockSink) Fail(_ context.Context, id string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[id] = cause
}

func (s *mockSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved), len(s.failed)
}

func pairJob(id, nameA string) model.Job {
	return model.Job{
		ID: id,
		A:  chart.Person{Profile: chart.Profile{Name: nameA}},
		B:  chart.Person{Profile: chart.Profile{Name: "partner"}},
	}
}

func TestInMemoryWorker(t *testing.T) {
	_ = logging.Init(logging.WithWriter(io.Discard))

	convey.Convey("Given a worker over a queue", t, func() {
		q := newMockQueue()
		sink := newMockSink()
		w := worker.NewInMemoryWorker(q, mockScorer{}, sink, worker.WithName("test-worker"))

		convey.Convey("When jobs are processed and the queue closes", func() {
			q.jobs <- pairJob("ok-1", "anna")
			q.jobs <- pairJob("bad-1", "bad")
			_ = q.Close()

			w.Run(context.Background())

			convey.Convey("Then successes are saved and failures reported", func() {
				sink.mu.Lock()
				defer sink.mu.Unlock()
				convey.So(sink.saved, convey.ShouldContainKey, "ok-1")
				convey.So(sink.saved["ok-1"].Mean(), convey.ShouldEqual, 65)
				convey.So(sink.failed, convey.ShouldContainKey, "bad-1")
				convey.So(sink.saved, convey.ShouldNotContainKey, "bad-1")
			})

			convey.Convey("Then Done is closed", func() {
				select {
				case <-w.Done():
					convey.So(true, convey.ShouldBeTrue)
				default:
					convey.So("done channel open", convey.ShouldBeEmpty)
				}
			})
		})

		convey.Convey("When the sink rejects a report", func() {
			sink.saveErr = errors.New("store down")
			q.jobs <- pairJob("ok-2", "anna")
			_ = q.Close()

			w.Run(context.Background())

			convey.Convey("Then the job is marked failed", func() {
				sink.mu.Lock()
				defer sink.mu.Unlock()
				convey.So(sink.failed, convey.ShouldContainKey, "ok-2")
			})
		})

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			go w.Run(ctx)
			cancel()
			_ = q.Close()

			convey.Convey("Then the worker stops", func() {
				select {
				case <-w.Done():
				case <-time.After(time.Second):
					t.Fatal("worker did not stop")
				}
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	_ = logging.Init(logging.WithWriter(io.Discard))

	convey.Convey("Given a pool of workers", t, func() {
		q := newMockQueue()
		sink := newMockSink()

		convey.Convey("When created with a non-positive count", func() {
			p := worker.NewPool(0, q, mockScorer{}, sink)

			convey.Convey("Then a default size is used", func() {
				convey.So(p.Size(), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When many jobs are queued and the pool shuts down", func() {
			p := worker.NewPool(4, q, mockScorer{}, sink)
			p.Start(context.Background())
			for i := 0; i < 50; i++ {
				q.jobs <- pairJob(fmt.Sprintf("job-%02d", i), "anna")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			err := p.Shutdown(ctx)

			convey.Convey("Then every queued job is drained", func() {
				convey.So(err, convey.ShouldBeNil)
				saved, failed := sink.counts()
				convey.So(saved, convey.ShouldEqual, 50)
				convey.So(failed, convey.ShouldEqual, 0)
			})

			convey.Convey("Then a second shutdown is a no-op", func() {
				convey.So(p.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})
	})
}
