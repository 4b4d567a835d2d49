package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/synastry/internal/domain/chart"
)

// StrengthHandler evaluates planet strengths of a single chart.
type StrengthHandler struct {
	deps Dependencies
}

// NewStrengthHandler creates a new strength handler.
func NewStrengthHandler(deps Dependencies) *StrengthHandler {
	return &StrengthHandler{deps: deps}
}

// HandleStrength handles POST /strength. The body is a chart, or a person
// wrapping one under "chart".
func (h *StrengthHandler) HandleStrength(w http.ResponseWriter, r *http.Request) {
	const op = "api.strength"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var raw json.RawMessage
	if err := decodeBody(w, r, &raw); err != nil {
		writeOpError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := chart.NormalizePerson(raw)
	if err != nil {
		writeOpError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Strengths(r.Context(), p.Chart))
}
