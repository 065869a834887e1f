package api

import (
	"context"
	"net/http"

	"github.com/okian/venturecast/internal/domain/types"
)

// OutcomeDependencies defines the interface for asynchronous outcome reports.
type OutcomeDependencies interface {
	SubmitOutcome(ctx context.Context, ventureID, outcome string) (types.Observation, error)
}

type outcomeRequest struct {
	VentureID string `json:"venture_id" validate:"required"`
	Outcome   string `json:"outcome" validate:"required,terminal_outcome"`
}

// OutcomesHandler accepts outcome reports for the background applier.
type OutcomesHandler struct {
	deps     OutcomeDependencies
	validate *requestValidator
}

// NewOutcomesHandler creates a new outcomes handler.
func NewOutcomesHandler(deps OutcomeDependencies, v *requestValidator) *OutcomesHandler {
	return &OutcomesHandler{deps: deps, validate: v}
}

// HandleSubmit handles POST /outcomes. It answers 202 once the observation
// is queued and 429 when the queue is full.
func (h *OutcomesHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_outcome"
	var req outcomeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	obs, err := h.deps.SubmitOutcome(r.Context(), req.VentureID, req.Outcome)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, obs)
}
