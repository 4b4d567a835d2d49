package api

import (
	"errors"
	"net/http"

	"github.com/okian/synastry/internal/domain/numerology"
)

// NumerologyHandler compares two birth dates.
type NumerologyHandler struct {
	deps Dependencies
}

// NewNumerologyHandler creates a new numerology handler.
func NewNumerologyHandler(deps Dependencies) *NumerologyHandler {
	return &NumerologyHandler{deps: deps}
}

type numerologyRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

// HandleNumerology handles POST /numerology.
func (h *NumerologyHandler) HandleNumerology(w http.ResponseWriter, r *http.Request) {
	const op = "api.numerology"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req numerologyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeOpError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	pair, err := h.deps.Numerology(r.Context(), req.A, req.B)
	if errors.Is(err, numerology.ErrUnparsableDate) || errors.Is(err, numerology.ErrInvalidDate) {
		writeOpError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err != nil {
		writeOpError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
