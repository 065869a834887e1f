// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Founder describes one member of a founding team. Founders have no identity
// outside the venture that owns them.
type Founder struct {
	Name              string `json:"name,omitempty"`
	PriorFounder      bool   `json:"prior_founder"`
	PriorSuccess      bool   `json:"prior_success"`
	BigTechExperience bool   `json:"big_tech_experience"`
	AdvancedDegree    bool   `json:"advanced_degree"`
	Immigrant         bool   `json:"immigrant"`
	YearsExperience   int    `json:"years_experience"`
}

// Venture is an early-stage company tracked by the predictor.
type Venture struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Sector         Sector          `json:"sector"`
	Stage          Stage           `json:"stage"`
	TeamSize       int             `json:"team_size"`
	FundingAmount  decimal.Decimal `json:"funding_amount"`
	VCTier         VCTier          `json:"vc_tier"`
	ExpectedEquity float64         `json:"expected_equity"` // founder equity at exit, 0..1
	Founders       []Founder       `json:"founders"`
	ActualOutcome  Outcome         `json:"actual_outcome"`

	// PredictedProbability is the last prediction captured for the venture
	// (at submission, then at each recorded outcome). Nil until captured.
	PredictedProbability *float64  `json:"predicted_probability,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (v *Venture) Clone() Venture {
	c := *v
	if v.Founders != nil {
		c.Founders = make([]Founder, len(v.Founders))
		copy(c.Founders, v.Founders)
	}
	if v.PredictedProbability != nil {
		p := *v.PredictedProbability
		c.PredictedProbability = &p
	}
	return c
}

// NeutralFounder is the founder attached to ventures submitted without any:
// no boost flag set and five years of experience.
func NeutralFounder() Founder {
	return Founder{Name: "Founder 1", YearsExperience: 5}
}
