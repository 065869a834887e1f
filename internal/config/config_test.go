package config_test

import (
	"errors"
	"testing"

	"github.com/okian/venturecast/internal/config"
	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.DefaultMode, convey.ShouldEqual, "unicorn")
			convey.So(cfg.Baseline, convey.ShouldResemble, scoring.DefaultBaseline())
			convey.So(cfg.Calibration.LearningRate, convey.ShouldEqual, 0.5)
			convey.So(cfg.Calibration.MaxProbability, convey.ShouldEqual, 0.8)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with a single invalid setting", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":        func(c *config.Config) { c.Addr = " " },
			"zero queue":        func(c *config.Config) { c.QueueSize = 0 },
			"zero limit":        func(c *config.Config) { c.MaxLeaderboardLimit = 0 },
			"negative samples":  func(c *config.Config) { c.SampleVentures = -1 },
			"zero learning":     func(c *config.Config) { c.Calibration.LearningRate = 0 },
			"unknown mode":      func(c *config.Config) { c.DefaultMode = "gazillion" },
			"unknown format":    func(c *config.Config) { c.LogFormat = "xml" },
			"base rate one":     func(c *config.Config) { c.Baseline.BaseRate = 1 },
			"negative boost":    func(c *config.Config) { c.Baseline.TierOneVCBoost = -1 },
			"inverted clamps":   func(c *config.Config) { c.Calibration.MinProbability = 0.9 },
			"zero scale cap":    func(c *config.Config) { c.Calibration.TeamScaleCap = 0 },
			"zero multiplierfl": func(c *config.Config) { c.Calibration.MultiplierFloor = 0 },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.Convey("Then "+name+" is rejected as invalid config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
