package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/synastry/internal/adapters/repository"
	service "github.com/okian/synastry/internal/app"
	"github.com/okian/synastry/internal/domain/model"
)

// JobsHandler handles asynchronous pair submissions.
type JobsHandler struct {
	deps Dependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps Dependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

// submitResponse is the 202 body of POST /jobs.
type submitResponse struct {
	ID        string          `json:"id"`
	Status    model.JobStatus `json:"status"`
	Duplicate bool            `json:"duplicate"`
}

// HandleSubmit handles POST /jobs.
func (h *JobsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.jobs.submit"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req pairRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeOpError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	a, b, err := req.persons()
	if err != nil {
		writeOpError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Submit(r.Context(), model.Job{ID: strings.TrimSpace(req.ID), A: a, B: b})
	switch {
	case errors.Is(err, service.ErrBackpressure):
		writeOpError(w, WrapKind(op, ErrBackpressure, err))
		return
	case errors.Is(err, service.ErrNotStarted):
		writeOpError(w, WrapKind(op, ErrUnavailable, err))
		return
	case err != nil:
		writeOpError(w, Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusAccepted, submitResponse{
		ID:        res.ID,
		Status:    model.JobQueued,
		Duplicate: res.Duplicate,
	})
}

// HandleGet handles GET /jobs/{id}.
func (h *JobsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.jobs.get"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	rec, err := h.deps.Report(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeOpError(w, WrapKind(op, ErrNotFound, err))
		return
	}
	if err != nil {
		writeOpError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
