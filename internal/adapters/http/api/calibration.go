package api

import (
	"context"
	"net/http"

	"github.com/okian/venturecast/internal/domain/model"
	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/okian/venturecast/internal/domain/types"
)

// CalibrationDependencies defines the interface for calibration reporting.
type CalibrationDependencies interface {
	ModeProvider
	Metrics(ctx context.Context, mode scoring.Mode) types.CalibrationSummary
	CalibrationEvents(ctx context.Context) []model.CalibrationEvent
}

// CalibrationHandler handles calibration report requests.
type CalibrationHandler struct {
	deps CalibrationDependencies
}

// NewCalibrationHandler creates a new calibration handler.
func NewCalibrationHandler(deps CalibrationDependencies) *CalibrationHandler {
	return &CalibrationHandler{deps: deps}
}

// HandleReport handles GET /calibration?mode= requests.
func (h *CalibrationHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	mode, err := modeParam(r, h.deps)
	if err != nil {
		writeUpstreamError(w, "api.calibration", err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Metrics(r.Context(), mode))
}

// HandleEvents handles GET /calibration/events requests.
func (h *CalibrationHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	events := h.deps.CalibrationEvents(r.Context())
	if events == nil {
		events = []model.CalibrationEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}
