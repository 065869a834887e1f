// Package types contains read shapes shared by the service and the HTTP API.
package types

import (
	"time"

	"github.com/okian/venturecast/internal/domain/calibration"
	"github.com/okian/venturecast/internal/domain/model"
)

// ScoredVenture is a venture together with its current probability.
type ScoredVenture struct {
	model.Venture
	Mode        string  `json:"mode"`
	Probability float64 `json:"probability"`
}

// Entry is one row of a venture ranking.
type Entry struct {
	Rank        int     `json:"rank"`
	VentureID   string  `json:"venture_id"`
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

// SectorSummary aggregates current predictions and observed hits per sector.
type SectorSummary struct {
	Sector         string  `json:"sector"`
	Count          int     `json:"count"`
	AvgProbability float64 `json:"avg_probability"`
	TargetHits     int     `json:"target_hits"` // ventures labeled with the mode's target outcome
	ActualRate     float64 `json:"actual_rate"`
}

// CalibrationSummary is the calibration quality report for one mode.
type CalibrationSummary struct {
	Mode         string  `json:"mode"`
	Offset       float64 `json:"offset"`
	LearningRate float64 `json:"learning_rate"`
	VentureCount int     `json:"venture_count"`
	calibration.Report
}

// OutcomeResult describes one applied calibration step.
type OutcomeResult struct {
	Event        model.CalibrationEvent `json:"event"`
	Mode         string                 `json:"mode"`
	OffsetBefore float64                `json:"offset_before"`
	OffsetAfter  float64                `json:"offset_after"`
}

// Observation is an outcome report waiting to be applied by the calibrator.
type Observation struct {
	ObservationID string `json:"observation_id"`
	VentureID     string `json:"venture_id"`
	Outcome       string `json:"outcome"`

	ReceivedAt time.Time `json:"received_at"`
}
