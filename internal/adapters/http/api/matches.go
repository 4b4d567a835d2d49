package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/synastry/internal/domain/types"
)

// defaultMatchesLimit applies when ?limit is absent.
const defaultMatchesLimit = 10

// MatchesHandler serves the ranked list of finished pairs.
type MatchesHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies, maxLimit int) *MatchesHandler {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &MatchesHandler{deps: deps, maxLimit: maxLimit}
}

type matchesResponse struct {
	Matches []types.MatchEntry `json:"matches"`
}

// HandleGetMatches handles GET /matches?limit=N.
func (h *MatchesHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.matches"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := defaultMatchesLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded",
				fmt.Sprintf("limit cannot exceed %d", h.maxLimit))
			return
		}
		limit = n
	}

	entries, err := h.deps.Top(r.Context(), limit)
	if err != nil {
		writeOpError(w, Wrap(op, err))
		return
	}
	if entries == nil {
		entries = []types.MatchEntry{}
	}
	writeJSON(w, http.StatusOK, matchesResponse{Matches: entries})
}
