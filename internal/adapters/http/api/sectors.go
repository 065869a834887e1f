package api

import (
	"context"
	"net/http"

	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/okian/venturecast/internal/domain/types"
)

// SectorDependencies defines the interface for sector analysis.
type SectorDependencies interface {
	ModeProvider
	Sectors(ctx context.Context, mode scoring.Mode) []types.SectorSummary
}

// SectorsHandler handles sector analysis requests.
type SectorsHandler struct {
	deps SectorDependencies
}

// NewSectorsHandler creates a new sectors handler.
func NewSectorsHandler(deps SectorDependencies) *SectorsHandler {
	return &SectorsHandler{deps: deps}
}

// HandleGetSectors handles GET /sectors?mode= requests.
func (h *SectorsHandler) HandleGetSectors(w http.ResponseWriter, r *http.Request) {
	mode, err := modeParam(r, h.deps)
	if err != nil {
		writeUpstreamError(w, "api.get_sectors", err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Sectors(r.Context(), mode))
}
