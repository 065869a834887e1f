// Package scoring computes calibrated probabilities that a venture reaches an
// extreme outcome. Scores are additive in log-odds space: the base rate's
// logit, the calibration offset, the venture's feature contribution and a
// mode adjustment are summed, mapped back through the logistic function and
// clamped.
package scoring

import (
	"math"

	"github.com/okian/venturecast/internal/domain/model"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithBaseline sets the baseline model.
func WithBaseline(b BaselineModel) Option {
	return func(e *Engine) {
		e.baseline = b
	}
}

// WithParameters sets the heuristic constants.
func WithParameters(p Parameters) Option {
	return func(e *Engine) {
		e.params = p
	}
}

// Engine is the probability engine. It holds only immutable configuration,
// so it is safe for concurrent use and every call is a pure function of its
// arguments.
type Engine struct {
	baseline BaselineModel
	params   Parameters
}

// NewEngine creates an engine with the reference configuration, overridden by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		baseline: DefaultBaseline(),
		params:   DefaultParameters(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Baseline returns the engine's baseline model.
func (e *Engine) Baseline() BaselineModel { return e.baseline }

// Parameters returns the engine's heuristic constants.
func (e *Engine) Parameters() Parameters { return e.params }

// Validate checks the engine configuration.
func (e *Engine) Validate() error {
	if err := e.baseline.Validate(); err != nil {
		return err
	}
	return e.params.Validate()
}

// Features returns the venture's log-odds contribution, independent of the
// calibration offset and the mode.
func (e *Engine) Features(v *model.Venture) float64 {
	return FeatureContribution(v, e.baseline, e.params)
}

// ModeAdjustment is the log-odds shift applied for mode m.
func (e *Engine) ModeAdjustment(v *model.Venture, m Mode) float64 {
	switch m {
	case ModeDecacorn:
		return math.Log(e.params.RarePenalty)
	case ModeBillionaire:
		equity := math.Max(v.ExpectedEquity/e.params.EquityReference, e.params.EquityFloor)
		return math.Log(e.params.EquityPenalty) + math.Log(equity)
	default:
		return 0
	}
}

// RankKey is the offset-free log-odds of v under m. Adding the offset is a
// uniform shift and the logistic function is monotone, so ordering ventures
// by RankKey orders them by probability for every offset.
func (e *Engine) RankKey(v *model.Venture, m Mode) float64 {
	return Logit(e.baseline.BaseRate) + e.Features(v) + e.ModeAdjustment(v, m)
}

// LogOdds returns the unclamped log-odds of v under m at the given offset.
func (e *Engine) LogOdds(v *model.Venture, offset float64, m Mode) float64 {
	return e.RankKey(v, m) + offset
}

// Probability returns the clamped probability that v reaches m's outcome.
func (e *Engine) Probability(v *model.Venture, offset float64, m Mode) float64 {
	return e.Clamp(InvLogit(e.LogOdds(v, offset, m)))
}

// Clamp bounds p to [MinProbability, MaxProbability]. The model is a
// multiplicative heuristic and never reports near-certainty either way.
func (e *Engine) Clamp(p float64) float64 {
	if math.IsNaN(p) {
		return e.params.MinProbability
	}
	return math.Min(math.Max(p, e.params.MinProbability), e.params.MaxProbability)
}

// Logit returns the natural log-odds of p.
func Logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

// InvLogit is the logistic function, the inverse of Logit.
func InvLogit(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
