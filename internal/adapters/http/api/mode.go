package api

import (
	"context"
	"net/http"

	"github.com/okian/venturecast/internal/domain/scoring"
)

// ModeDependencies defines the interface for switching the active mode.
type ModeDependencies interface {
	ModeProvider
	SetMode(ctx context.Context, m scoring.Mode) error
}

type modeRequest struct {
	Mode string `json:"mode" validate:"required,mode"`
}

type modeResponse struct {
	Mode      scoring.Mode   `json:"mode"`
	Available []scoring.Mode `json:"available"`
}

// ModeHandler handles the active mode toggle.
type ModeHandler struct {
	deps     ModeDependencies
	validate *requestValidator
}

// NewModeHandler creates a new mode handler.
func NewModeHandler(deps ModeDependencies, v *requestValidator) *ModeHandler {
	return &ModeHandler{deps: deps, validate: v}
}

// HandleGet handles GET /mode requests.
func (h *ModeHandler) HandleGet(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, modeResponse{Mode: h.deps.Mode(), Available: scoring.Modes()})
}

// HandlePut handles PUT /mode requests.
func (h *ModeHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_mode"
	var req modeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	m, err := scoring.ParseMode(req.Mode)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	if err := h.deps.SetMode(r.Context(), m); err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, modeResponse{Mode: m, Available: scoring.Modes()})
}
