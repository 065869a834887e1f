package api

import (
	"context"
	"net/http"

	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/okian/venturecast/internal/domain/types"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	ModeProvider
	Rank(ctx context.Context, mode scoring.Mode, ventureID string) (types.Entry, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{id} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	mode, err := modeParam(r, h.deps)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	entry, err := h.deps.Rank(r.Context(), mode, r.PathValue("id"))
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
