package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/okian/venturecast/internal/domain/model"
	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/okian/venturecast/internal/domain/types"
)

// VentureDependencies defines the interface for venture operations.
type VentureDependencies interface {
	ModeProvider
	AddVenture(ctx context.Context, v model.Venture) (types.ScoredVenture, error)
	Venture(ctx context.Context, id string, mode scoring.Mode) (types.ScoredVenture, error)
	Ventures(ctx context.Context, mode scoring.Mode) []types.ScoredVenture
	RecordOutcome(ctx context.Context, ventureID string, outcome model.Outcome) (types.OutcomeResult, error)
}

type founderRequest struct {
	Name              string `json:"name"`
	PriorFounder      bool   `json:"prior_founder"`
	PriorSuccess      bool   `json:"prior_success"`
	BigTechExperience bool   `json:"big_tech_experience"`
	AdvancedDegree    bool   `json:"advanced_degree"`
	Immigrant         bool   `json:"immigrant"`
	YearsExperience   int    `json:"years_experience" validate:"gte=0"`
}

// ventureRequest is the accepted shape of a new venture. Server-owned
// fields such as id and predicted_probability are not read from clients.
type ventureRequest struct {
	Name           string           `json:"name" validate:"required,max=200"`
	Sector         string           `json:"sector" validate:"required,sector"`
	Stage          string           `json:"stage" validate:"required,stage"`
	TeamSize       int              `json:"team_size" validate:"gte=0"`
	FundingAmount  decimal.Decimal  `json:"funding_amount" validate:"gte=0"`
	VCTier         string           `json:"vc_tier" validate:"required,vc_tier"`
	ExpectedEquity float64          `json:"expected_equity" validate:"gte=0,lte=1"`
	Founders       []founderRequest `json:"founders" validate:"omitempty,max=20,dive"`
	ActualOutcome  string           `json:"actual_outcome" validate:"omitempty,outcome"`
}

func (req ventureRequest) toModel() (model.Venture, error) {
	v := model.Venture{
		Name:           req.Name,
		TeamSize:       req.TeamSize,
		FundingAmount:  req.FundingAmount,
		ExpectedEquity: req.ExpectedEquity,
	}
	var err error
	if v.Sector, err = model.ParseSector(req.Sector); err != nil {
		return model.Venture{}, err
	}
	if v.Stage, err = model.ParseStage(req.Stage); err != nil {
		return model.Venture{}, err
	}
	if v.VCTier, err = model.ParseVCTier(req.VCTier); err != nil {
		return model.Venture{}, err
	}
	if req.ActualOutcome != "" {
		if v.ActualOutcome, err = model.ParseOutcome(req.ActualOutcome); err != nil {
			return model.Venture{}, err
		}
	}
	for _, f := range req.Founders {
		v.Founders = append(v.Founders, model.Founder(f))
	}
	return v, nil
}

type recordOutcomeRequest struct {
	Outcome string `json:"outcome" validate:"required,terminal_outcome"`
}

// VenturesHandler handles venture submission, lookup and synchronous
// outcome recording.
type VenturesHandler struct {
	deps     VentureDependencies
	validate *requestValidator
}

// NewVenturesHandler creates a new ventures handler.
func NewVenturesHandler(deps VentureDependencies, v *requestValidator) *VenturesHandler {
	return &VenturesHandler{deps: deps, validate: v}
}

// HandleCreate handles POST /ventures requests.
func (h *VenturesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_venture"
	var req ventureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	v, err := req.toModel()
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	scored, err := h.deps.AddVenture(r.Context(), v)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, scored)
}

// HandleList handles GET /ventures?mode= requests.
func (h *VenturesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	mode, err := modeParam(r, h.deps)
	if err != nil {
		writeUpstreamError(w, "api.list_ventures", err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Ventures(r.Context(), mode))
}

// HandleGet handles GET /ventures/{id}?mode= requests.
func (h *VenturesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_venture"
	mode, err := modeParam(r, h.deps)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	v, err := h.deps.Venture(r.Context(), r.PathValue("id"), mode)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleRecordOutcome handles POST /ventures/{id}/outcome. The calibration
// step is applied before the response is written.
func (h *VenturesHandler) HandleRecordOutcome(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_outcome"
	var req recordOutcomeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	outcome, err := model.ParseOutcome(req.Outcome)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	res, err := h.deps.RecordOutcome(r.Context(), r.PathValue("id"), outcome)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
