package scoring

import (
	"fmt"
	"math"
)

// BaselineModel holds the named effect multipliers the engine scores with.
// It is loaded once at startup and never mutated afterwards.
type BaselineModel struct {
	// BaseRate is the prior probability of the reference outcome (seed -> unicorn).
	BaseRate float64 `koanf:"base_rate"`

	SerialFounderBoost    float64 `koanf:"serial_founder_boost"`    // prior founder with a prior success
	ImmigrantFounderBoost float64 `koanf:"immigrant_founder_boost"` // immigrant founder
	TierOneVCBoost        float64 `koanf:"tier_one_vc_boost"`       // tier-one lead investor
	PriorBigTechBoost     float64 `koanf:"prior_big_tech_boost"`    // big-tech experience
	AdvancedDegreeBoost   float64 `koanf:"advanced_degree_boost"`   // advanced degree
	ManagementMultiplier  float64 `koanf:"management_multiplier"`   // full effect at the team-scale cap

	// Recorded with the model but not used in scoring.
	CEOEffect       float64 `koanf:"ceo_effect"`
	RepeatTeamBoost float64 `koanf:"repeat_team_boost"`
}

// DefaultBaseline returns the research-derived reference configuration.
func DefaultBaseline() BaselineModel {
	return BaselineModel{
		BaseRate:              0.025,
		SerialFounderBoost:    1.5,
		ImmigrantFounderBoost: 1.2,
		TierOneVCBoost:        1.8,
		PriorBigTechBoost:     1.3,
		AdvancedDegreeBoost:   1.1,
		ManagementMultiplier:  1.4,
		CEOEffect:             0.19,
		RepeatTeamBoost:       1.25,
	}
}

// Validate checks that BaseRate lies strictly inside (0,1), so its log-odds
// are defined, and that every boost is a finite non-negative number.
func (b BaselineModel) Validate() error {
	if !(b.BaseRate > 0 && b.BaseRate < 1) {
		return fmt.Errorf("%w: base_rate %v must be in (0,1)", ErrInvalidBaseline, b.BaseRate)
	}
	boosts := []struct {
		name  string
		value float64
	}{
		{"serial_founder_boost", b.SerialFounderBoost},
		{"immigrant_founder_boost", b.ImmigrantFounderBoost},
		{"tier_one_vc_boost", b.TierOneVCBoost},
		{"prior_big_tech_boost", b.PriorBigTechBoost},
		{"advanced_degree_boost", b.AdvancedDegreeBoost},
		{"management_multiplier", b.ManagementMultiplier},
	}
	for _, f := range boosts {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s %v must be a finite value >= 0", ErrInvalidBaseline, f.name, f.value)
		}
	}
	return nil
}
