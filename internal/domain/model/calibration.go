package model

import (
	"math"
	"time"
)

// CalibrationEvent captures one observed (predicted, actual) pair.
// Events are append-only and never mutated once created.
type CalibrationEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	VentureID     string    `json:"venture_id"`
	Outcome       Outcome   `json:"outcome"`
	Predicted     float64   `json:"predicted"`
	Actual        int       `json:"actual"` // 0 or 1
	Error         float64   `json:"error"`  // actual - predicted
	AbsoluteError float64   `json:"absolute_error"`
}

// NewCalibrationEvent builds an event, deriving the error terms.
func NewCalibrationEvent(ts time.Time, ventureID string, outcome Outcome, predicted float64, actual int) CalibrationEvent {
	e := float64(actual) - predicted
	return CalibrationEvent{
		Timestamp:     ts,
		VentureID:     ventureID,
		Outcome:       outcome,
		Predicted:     predicted,
		Actual:        actual,
		Error:         e,
		AbsoluteError: math.Abs(e),
	}
}
