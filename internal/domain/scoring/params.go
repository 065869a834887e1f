package scoring

import (
	"fmt"
	"math"
)

// Parameters are the hand-chosen constants of the heuristic. None of them
// were fitted, so they are exposed as configuration rather than hard-coded.
type Parameters struct {
	TierTwoVCBoost float64 `koanf:"tier_two_vc_boost"`
	TeamScaleCap   int     `koanf:"team_scale_cap"` // team size at which the management effect saturates

	SeedMultiplier        float64 `koanf:"seed_multiplier"`
	SeriesAMultiplier     float64 `koanf:"series_a_multiplier"`
	SeriesBMultiplier     float64 `koanf:"series_b_multiplier"`
	SeriesCPlusMultiplier float64 `koanf:"series_c_plus_multiplier"`

	RarePenalty     float64 `koanf:"rare_penalty"`     // odds factor for the decacorn mode
	EquityPenalty   float64 `koanf:"equity_penalty"`   // odds factor for the billionaire mode
	EquityReference float64 `koanf:"equity_reference"` // equity share with a neutral equity effect
	EquityFloor     float64 `koanf:"equity_floor"`     // lower bound of the equity scaling

	MinProbability float64 `koanf:"min_probability"`
	MaxProbability float64 `koanf:"max_probability"`

	// MultiplierFloor keeps every multiplier positive before taking its log.
	MultiplierFloor float64 `koanf:"multiplier_floor"`
}

// DefaultParameters returns the reference constants.
func DefaultParameters() Parameters {
	return Parameters{
		TierTwoVCBoost:        1.2,
		TeamScaleCap:          20,
		SeedMultiplier:        1.0,
		SeriesAMultiplier:     1.4,
		SeriesBMultiplier:     1.8,
		SeriesCPlusMultiplier: 2.4,
		RarePenalty:           0.1,
		EquityPenalty:         0.05,
		EquityReference:       0.15,
		EquityFloor:           0.5,
		MinProbability:        0.001,
		MaxProbability:        0.8,
		MultiplierFloor:       1e-6,
	}
}

// Validate rejects parameters that would make the engine's arithmetic undefined.
func (p Parameters) Validate() error {
	switch {
	case p.TeamScaleCap < 1:
		return fmt.Errorf("%w: team_scale_cap %d must be >= 1", ErrInvalidParameters, p.TeamScaleCap)
	case !(p.EquityReference > 0):
		return fmt.Errorf("%w: equity_reference %v must be > 0", ErrInvalidParameters, p.EquityReference)
	case !(p.MultiplierFloor > 0):
		return fmt.Errorf("%w: multiplier_floor %v must be > 0", ErrInvalidParameters, p.MultiplierFloor)
	case !(p.MinProbability > 0 && p.MinProbability < p.MaxProbability && p.MaxProbability < 1):
		return fmt.Errorf("%w: probability bounds [%v, %v] must satisfy 0 < min < max < 1",
			ErrInvalidParameters, p.MinProbability, p.MaxProbability)
	}
	factors := []struct {
		name  string
		value float64
	}{
		{"tier_two_vc_boost", p.TierTwoVCBoost},
		{"seed_multiplier", p.SeedMultiplier},
		{"series_a_multiplier", p.SeriesAMultiplier},
		{"series_b_multiplier", p.SeriesBMultiplier},
		{"series_c_plus_multiplier", p.SeriesCPlusMultiplier},
		{"rare_penalty", p.RarePenalty},
		{"equity_penalty", p.EquityPenalty},
		{"equity_floor", p.EquityFloor},
	}
	for _, f := range factors {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s %v must be a finite value > 0", ErrInvalidParameters, f.name, f.value)
		}
	}
	return nil
}
