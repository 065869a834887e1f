package service

import (
	"time"

	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/okian/venturecast/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBaseline sets the baseline effect multipliers.
func WithBaseline(b scoring.BaselineModel) Option {
	return func(s *Service) {
		s.baseline = b
	}
}

// WithParameters sets the scoring constants.
func WithParameters(p scoring.Parameters) Option {
	return func(s *Service) {
		s.params = p
	}
}

// WithLearningRate sets the calibration step size.
func WithLearningRate(rate float64) Option {
	return func(s *Service) {
		if rate > 0 {
			s.learningRate = rate
		}
	}
}

// WithMode sets the target-outcome mode active at startup.
func WithMode(m scoring.Mode) Option {
	return func(s *Service) {
		if m.Valid() {
			s.mode = m
		}
	}
}

// WithQueueSize sets the maximum size of the outcome queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSampleVentures seeds the service with n generated ventures on Start.
func WithSampleVentures(n int, seed int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.sampleVentures = n
			s.sampleSeed = seed
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how venture and observation ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
