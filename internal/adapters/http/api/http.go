// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/synastry/internal/adapters/repository"
	service "github.com/okian/synastry/internal/app"
	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/model"
	"github.com/okian/synastry/internal/domain/numerology"
	"github.com/okian/synastry/internal/domain/synastry"
	"github.com/okian/synastry/internal/domain/types"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// ScorePair computes both directional reports synchronously.
	ScorePair(ctx context.Context, a, b chart.Person) (synastry.PairReport, error)

	// Submit queues a pair for asynchronous scoring.
	Submit(ctx context.Context, job model.Job) (service.SubmitResult, error)

	// Report returns the state of a submitted job.
	Report(ctx context.Context, jobID string) (repository.Record, error)

	// Top returns the best finished pairs.
	Top(ctx context.Context, n int) ([]types.MatchEntry, error)

	Numerology(ctx context.Context, dobA, dobB string) (numerology.Pair, error)
	Strengths(ctx context.Context, c chart.Chart) service.StrengthReport
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	synastryHandler   *SynastryHandler
	jobsHandler       *JobsHandler
	matchesHandler    *MatchesHandler
	numerologyHandler *NumerologyHandler
	strengthHandler   *StrengthHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps
// GET /matches.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		synastryHandler:   NewSynastryHandler(deps),
		jobsHandler:       NewJobsHandler(deps),
		matchesHandler:    NewMatchesHandler(deps, maxLimit),
		numerologyHandler: NewNumerologyHandler(deps),
		strengthHandler:   NewStrengthHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/synastry", MetricsMiddleware(s.synastryHandler.HandleScore, "synastry"))
	mux.HandleFunc("/jobs", MetricsMiddleware(s.jobsHandler.HandleSubmit, "jobs"))
	mux.HandleFunc("/jobs/", MetricsMiddleware(s.jobsHandler.HandleGet, "job"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleGetMatches, "matches"))
	mux.HandleFunc("/numerology", MetricsMiddleware(s.numerologyHandler.HandleNumerology, "numerology"))
	mux.HandleFunc("/strength", MetricsMiddleware(s.strengthHandler.HandleStrength, "strength"))
}

// pairRequest is the body of POST /synastry and POST /jobs. Persons are
// kept raw so loose chart shapes can be normalised.
type pairRequest struct {
	ID string          `json:"id,omitempty"`
	A  json.RawMessage `json:"a"`
	B  json.RawMessage `json:"b"`
}

func (p pairRequest) persons() (chart.Person, chart.Person, error) {
	if len(p.A) == 0 || len(p.B) == 0 {
		return chart.Person{}, chart.Person{}, errors.New("both a and b are required")
	}
	a, err := chart.NormalizePerson(p.A)
	if err != nil {
		return chart.Person{}, chart.Person{}, fmt.Errorf("a: %w", err)
	}
	b, err := chart.NormalizePerson(p.B)
	if err != nil {
		return chart.Person{}, chart.Person{}, fmt.Errorf("b: %w", err)
	}
	return a, b, nil
}

// decodeBody reads a bounded JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON writes a JSON response. The body is encoded before the status
// line so an unencodable value becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{
			"error":   "encode_failed",
			"message": err.Error(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": msg,
	})
}

// writeOpError maps an OpError kind to its status code.
func writeOpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err.Error())
	case errors.Is(err, ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
