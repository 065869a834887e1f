package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/okian/venturecast/internal/domain/types"
)

const defaultLeaderboardLimit = 10

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	ModeProvider
	TopN(ctx context.Context, mode scoring.Mode, n int) ([]types.Entry, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?mode=&limit=N requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	mode, err := modeParam(r, h.deps)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	n := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_limit", fmt.Errorf("%s: %w: %q", op, ErrBadRequest, raw))
			return
		}
	}
	if n > h.maxLimit {
		writeUpstreamError(w, op, fmt.Errorf("%w: %d > %d", ErrLimitExceeded, n, h.maxLimit))
		return
	}
	entries, err := h.deps.TopN(r.Context(), mode, n)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
