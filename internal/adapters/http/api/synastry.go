package api

import (
	"net/http"

	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/overlay"
	"github.com/okian/synastry/internal/domain/synastry"
)

// SynastryHandler scores a pair synchronously.
type SynastryHandler struct {
	deps Dependencies
}

// NewSynastryHandler creates a new synastry handler.
func NewSynastryHandler(deps Dependencies) *SynastryHandler {
	return &SynastryHandler{deps: deps}
}

// synastryResponse is the body of POST /synastry.
type synastryResponse struct {
	synastry.PairReport
	Mean     float64  `json:"mean"`
	Overlays []string `json:"overlay_text,omitempty"`
}

// HandleScore handles POST /synastry.
func (h *SynastryHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.synastry"
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

	report, err := h.deps.ScorePair(r.Context(), a, b)
	if err != nil {
		writeOpError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, synastryResponse{
		PairReport: report,
		Mean:       report.Mean(),
		Overlays:   overlayText(report, a, b),
	})
}

// overlayText renders the overlays of both directions as sentences.
func overlayText(p synastry.PairReport, a, b chart.Person) []string { //nolint:gocritic // hugeParam: read-only
	list := make([]overlay.Overlay, 0, len(p.AtoB.Overlays)+len(p.BtoA.Overlays))
	list = append(list, p.AtoB.Overlays...)
	list = append(list, p.BtoA.Overlays...)
	sideA, _ := synastry.AtoB.Sides()
	return overlay.FormatAll(list, sideA, a.NameForms(), b.NameForms())
}
