package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Ventures     int           // Number of ventures to generate
	Seed         int64         // Generator seed
	Replay       bool          // Submit generated labels as observed outcomes
	TopN         int           // Leaderboard size to fetch at the end
	Workers      int           // Concurrent requests
	Timeout      time.Duration // Per-request timeout
	DrainTimeout time.Duration // How long to wait for queued outcomes to apply
	PollInterval time.Duration
}

// Stats summarizes a seeding run.
type Stats struct {
	VenturesCreated  int
	VenturesFailed   int
	OutcomesAccepted int
	OutcomesRejected int
	EventCount       int
	Offset           float64
	Brier            *float64
	Leaderboard      []Entry
	Duration         time.Duration
}

// Entry is one leaderboard row as served by the API.
type Entry struct {
	Rank        int     `json:"rank"`
	VentureID   string  `json:"venture_id"`
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

type createdVenture struct {
	ID          string  `json:"id"`
	Probability float64 `json:"probability"`
}

type outcomeRequest struct {
	VentureID string `json:"venture_id"`
	Outcome   string `json:"outcome"`
}

type calibrationReport struct {
	EventCount int      `json:"event_count"`
	Offset     float64  `json:"offset"`
	Brier      *float64 `json:"brier"`
}
