// Package config defines service configuration and its loading from
// defaults, an optional YAML file and the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/venturecast/internal/domain/calibration"
	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/okian/venturecast/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the asynchronous outcome queue.
	QueueSize int `koanf:"queue_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DefaultMode is the target-outcome mode active at startup.
	DefaultMode string `koanf:"default_mode"`

	// SampleVentures seeds the store with generated ventures when > 0.
	SampleVentures int   `koanf:"sample_ventures"`
	SampleSeed     int64 `koanf:"sample_seed"`

	Baseline    scoring.BaselineModel `koanf:"baseline"`
	Calibration Calibration           `koanf:"calibration"`
}

// Calibration groups the online-learning rate with the scoring constants.
type Calibration struct {
	LearningRate       float64 `koanf:"learning_rate"`
	scoring.Parameters `koanf:",squash"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		QueueSize:           10_000,
		MaxLeaderboardLimit: 100,
		DefaultMode:         scoring.ModeUnicorn.String(),
		SampleVentures:      0,
		SampleSeed:          42,
		Baseline:            scoring.DefaultBaseline(),
		Calibration: Calibration{
			LearningRate: calibration.DefaultLearningRate,
			Parameters:   scoring.DefaultParameters(),
		},
	}
}

// Validate reports the first setting that cannot run the service.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size %d must be >= 1", ErrInvalidConfig, c.QueueSize)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit %d must be >= 1", ErrInvalidConfig, c.MaxLeaderboardLimit)
	case c.SampleVentures < 0:
		return fmt.Errorf("%w: sample_ventures %d must be >= 0", ErrInvalidConfig, c.SampleVentures)
	case !(c.Calibration.LearningRate > 0):
		return fmt.Errorf("%w: learning_rate %v must be > 0", ErrInvalidConfig, c.Calibration.LearningRate)
	}
	if _, err := scoring.ParseMode(c.DefaultMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Baseline.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Calibration.Parameters.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
