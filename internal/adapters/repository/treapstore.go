package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/okian/synastry/internal/domain/model"
	"github.com/okian/synastry/internal/domain/synastry"
	"github.com/okian/synastry/internal/domain/types"
	"github.com/okian/synastry/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: summed final percent DESC, then job id ASC. The sum of both
// directional finals is twice the mean and stays an exact integer. In-order
// traversal yields the ranking from best to worst.

type node struct {
	id    string
	sum   int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aSum, aID) ranks before (bSum, bID).
func less(aSum int, aID string, bSum int, bID string) bool {
	if aSum != bSum {
		return aSum > bSum
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

// priority hashes the id so the tree shape does not depend on insertion order.
func priority(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

func insert(n *node, id string, sum int) *node {
	if n == nil {
		return &node{id: id, sum: sum, prio: priority(id), size: 1}
	}
	if less(sum, id, n.sum, n.id) {
		n.left = insert(n.left, id, sum)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, sum)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, sum int) *node {
	if n == nil {
		return nil
	}
	switch {
	case sum == n.sum && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, sum)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, sum)
		}
	case less(sum, id, n.sum, n.id):
		n.left = deleteNode(n.left, id, sum)
	default:
		n.right = deleteNode(n.right, id, sum)
	}
	fix(n)
	return n
}

// position returns the 1-based in-order index of (sum, id), or 0.
func position(n *node, id string, sum int) int {
	pos := 0
	for n != nil {
		switch {
		case sum == n.sum && id == n.id:
			return pos + nsize(n.left) + 1
		case less(sum, id, n.sum, n.id):
			n = n.left
		default:
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

func collectTopN(n *node, limit int, visit func(*node)) int {
	if n == nil || limit <= 0 {
		return 0
	}
	seen := collectTopN(n.left, limit, visit)
	if seen < limit {
		visit(n)
		seen++
	}
	if seen < limit {
		seen += collectTopN(n.right, limit-seen, visit)
	}
	return seen
}

type record struct {
	job    model.Job
	status model.JobStatus
	report *synastry.PairReport
	err    string
	at     time.Time
}

func (r *record) sum() int {
	return r.report.AtoB.FinalPercent + r.report.BtoA.FinalPercent
}

// TreapStore keeps every job in a map and ranks finished ones in a treap.
type TreapStore struct {
	mu     sync.RWMutex
	root   *node
	byID   map[string]*record
	ranked int
	now    func() time.Time
}

// NewTreapStore constructs an empty store.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		byID: make(map[string]*record),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateReportsStored(0)
	return s
}

func (s *TreapStore) Track(_ context.Context, job model.Job) { //nolint:gocritic // hugeParam: jobs travel by value
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[job.ID]; ok {
		return
	}
	s.byID[job.ID] = &record{job: job, status: model.JobQueued, at: s.now()}
}

func (s *TreapStore) Forget(_ context.Context, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[jobID]
	if !ok || rec.report != nil {
		return
	}
	delete(s.byID, jobID)
}

// Save is O(log n) expected.
func (s *TreapStore) Save(_ context.Context, job model.Job, report synastry.PairReport) error { //nolint:gocritic // hugeParam: jobs travel by value
	s.mu.Lock()
	rec, ok := s.byID[job.ID]
	if !ok {
		rec = &record{job: job}
		s.byID[job.ID] = rec
	}
	if rec.report != nil {
		s.root = deleteNode(s.root, job.ID, rec.sum())
		s.ranked--
	}
	rec.report = &report
	rec.status = model.JobDone
	rec.err = ""
	rec.at = s.now()
	s.root = insert(s.root, job.ID, rec.sum())
	s.ranked++
	ranked := s.ranked
	s.mu.Unlock()

	metrics.UpdateReportsStored(ranked)
	return nil
}

func (s *TreapStore) Fail(_ context.Context, jobID string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[jobID]
	if !ok {
		rec = &record{job: model.Job{ID: jobID}}
		s.byID[jobID] = rec
	}
	rec.status = model.JobFailed
	if cause != nil {
		rec.err = cause.Error()
	}
	rec.at = s.now()
}

func (s *TreapStore) Get(_ context.Context, jobID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[jobID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Record{}, ErrNotFound
	}
	return Record{
		Job:       rec.job,
		Status:    rec.status,
		Report:    rec.report,
		Error:     rec.err,
		UpdatedAt: rec.at,
	}, nil
}

// Rank is O(log n) expected.
func (s *TreapStore) Rank(_ context.Context, jobID string) (types.MatchEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[jobID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.MatchEntry{}, ErrNotFound
	}
	if rec.report == nil {
		return types.MatchEntry{}, ErrNotReady
	}
	e := entryOf(rec)
	e.Rank = position(s.root, jobID, rec.sum())
	return e, nil
}

func (s *TreapStore) Top(_ context.Context, n int) ([]types.MatchEntry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.MatchEntry, 0, min(n, s.ranked))
	collectTopN(s.root, n, func(nd *node) {
		e := entryOf(s.byID[nd.id])
		e.Rank = len(out) + 1
		out = append(out, e)
	})
	return out, nil
}

func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ranked
}

func entryOf(rec *record) types.MatchEntry {
	return types.MatchEntry{
		JobID:   rec.job.ID,
		NameA:   rec.job.A.Profile.Name,
		NameB:   rec.job.B.Profile.Name,
		Percent: rec.report.Mean(),
		AtoB:    rec.report.AtoB.FinalPercent,
		BtoA:    rec.report.BtoA.FinalPercent,
	}
}
