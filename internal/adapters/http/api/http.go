// Package api exposes the venture predictor over JSON HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/venturecast/internal/domain/scoring"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	VentureDependencies
	OutcomeDependencies
	CalibrationDependencies
	LeaderboardDependencies
	RankDependencies
	SectorDependencies
	ModeDependencies
	StatsProvider
}

// ModeProvider supplies the mode used when a request does not name one.
type ModeProvider interface {
	Mode() scoring.Mode
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	venturesHandler    *VenturesHandler
	outcomesHandler    *OutcomesHandler
	calibrationHandler *CalibrationHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	sectorsHandler     *SectorsHandler
	modeHandler        *ModeHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxLimit int) *Server {
	v := newRequestValidator()
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		venturesHandler:    NewVenturesHandler(deps, v),
		outcomesHandler:    NewOutcomesHandler(deps, v),
		calibrationHandler: NewCalibrationHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
		sectorsHandler:     NewSectorsHandler(deps),
		modeHandler:        NewModeHandler(deps, v),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /ventures", MetricsMiddleware(s.venturesHandler.HandleCreate, "ventures"))
	mux.HandleFunc("GET /ventures", MetricsMiddleware(s.venturesHandler.HandleList, "ventures"))
	mux.HandleFunc("GET /ventures/{id}", MetricsMiddleware(s.venturesHandler.HandleGet, "venture"))
	mux.HandleFunc("POST /ventures/{id}/outcome", MetricsMiddleware(s.venturesHandler.HandleRecordOutcome, "venture_outcome"))

	mux.HandleFunc("POST /outcomes", MetricsMiddleware(s.outcomesHandler.HandleSubmit, "outcomes"))

	mux.HandleFunc("GET /calibration", MetricsMiddleware(s.calibrationHandler.HandleReport, "calibration"))
	mux.HandleFunc("GET /calibration/events", MetricsMiddleware(s.calibrationHandler.HandleEvents, "calibration_events"))

	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /rank/{id}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("GET /sectors", MetricsMiddleware(s.sectorsHandler.HandleGetSectors, "sectors"))

	mux.HandleFunc("GET /mode", MetricsMiddleware(s.modeHandler.HandleGet, "mode"))
	mux.HandleFunc("PUT /mode", MetricsMiddleware(s.modeHandler.HandlePut, "mode"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeUpstreamError translates a service error into its HTTP form.
func writeUpstreamError(w http.ResponseWriter, op string, err error) {
	status, code := errorStatus(err)
	writeError(w, status, code, fmt.Errorf("%s: %w", op, err))
}

// modeParam reads ?mode=, falling back to the service's active mode.
func modeParam(r *http.Request, deps ModeProvider) (scoring.Mode, error) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		return deps.Mode(), nil
	}
	return scoring.ParseMode(raw)
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
