package calibration

import (
	"math"

	"github.com/okian/venturecast/internal/domain/model"
)

// probabilityEpsilon keeps log-loss terms away from log(0).
const probabilityEpsilon = 1e-12

// Report summarizes calibration quality. Pointer fields are nil when there
// is no data to derive them from.
type Report struct {
	EventCount        int      `json:"event_count"`
	Brier             *float64 `json:"brier"`
	LogLoss           *float64 `json:"log_loss"`
	Accuracy          *float64 `json:"accuracy"` // 1 - mean absolute error
	AveragePrediction *float64 `json:"average_prediction"`
}

// Summarize derives the event-based metrics from an ordered event log.
// AveragePrediction is left unset; see AveragePrediction.
func Summarize(events []model.CalibrationEvent) Report {
	r := Report{EventCount: len(events)}
	if len(events) == 0 {
		return r
	}
	n := float64(len(events))
	brier := Brier(events)
	var ll, absErr float64
	for _, e := range events {
		p := math.Min(math.Max(e.Predicted, probabilityEpsilon), 1-probabilityEpsilon)
		y := float64(e.Actual)
		ll += y*math.Log(p) + (1-y)*math.Log(1-p)
		absErr += e.AbsoluteError
	}
	ll = -ll / n
	acc := 1 - absErr/n
	r.Brier = &brier
	r.LogLoss = &ll
	r.Accuracy = &acc
	return r
}

// Brier is the mean squared difference between predictions and outcomes.
// It returns 0 for an empty log; use Summarize to tell "no data" apart.
func Brier(events []model.CalibrationEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range events {
		d := e.Predicted - float64(e.Actual)
		sum += d * d
	}
	return sum / float64(len(events))
}

// AveragePrediction is the mean of freshly computed probabilities, or nil
// when there are none.
func AveragePrediction(probabilities []float64) *float64 {
	if len(probabilities) == 0 {
		return nil
	}
	sum := 0.0
	for _, p := range probabilities {
		sum += p
	}
	avg := sum / float64(len(probabilities))
	return &avg
}
