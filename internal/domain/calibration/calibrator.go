package calibration

import (
	"fmt"
	"time"

	"github.com/okian/venturecast/internal/domain/model"
	"github.com/okian/venturecast/internal/domain/scoring"
)

// DefaultLearningRate is the reference step size of the offset update.
const DefaultLearningRate = 0.5

// Option applies a configuration option to the Calibrator.
type Option func(*Calibrator)

// WithLearningRate sets the fixed step size shared by every update.
func WithLearningRate(rate float64) Option {
	return func(c *Calibrator) {
		if rate > 0 {
			c.learningRate = rate
		}
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(c *Calibrator) {
		if now != nil {
			c.now = now
		}
	}
}

// PredictFunc returns the probability for the observed venture at a given offset.
type PredictFunc func(offset float64) float64

// Step describes one applied update.
type Step struct {
	Event        model.CalibrationEvent
	OffsetBefore float64
	OffsetAfter  float64
}

// Calibrator is the only writer of a State. Each update is a single
// stochastic-gradient step on the intercept of a logistic model whose other
// coefficients stay frozen at their heuristic values.
type Calibrator struct {
	state        *State
	learningRate float64
	now          func() time.Time
}

// NewCalibrator creates a calibrator writing to state.
func NewCalibrator(state *State, opts ...Option) *Calibrator {
	c := &Calibrator{
		state:        state,
		learningRate: DefaultLearningRate,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LearningRate returns the configured step size.
func (c *Calibrator) LearningRate() float64 { return c.learningRate }

// State returns the state the calibrator writes to.
func (c *Calibrator) State() *State { return c.state }

// Record applies one observation. The prediction is taken at the offset in
// force before the observation, and the read, update and append happen under
// the state's write lock so concurrent callers are applied one at a time.
//
// Recording the same venture twice is allowed and yields two independent
// steps.
func (c *Calibrator) Record(ventureID string, outcome model.Outcome, mode scoring.Mode, predict PredictFunc) (Step, error) {
	if !outcome.IsTerminal() {
		return Step{}, fmt.Errorf("%w: %s", ErrInvalidOutcome, outcome)
	}
	actual := mode.Actual(outcome)

	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	before := c.state.offset
	predicted := predict(before)
	event := model.NewCalibrationEvent(c.now(), ventureID, outcome, predicted, actual)

	c.state.offset = before + c.learningRate*event.Error
	c.state.events = append(c.state.events, event)

	return Step{Event: event, OffsetBefore: before, OffsetAfter: c.state.offset}, nil
}
