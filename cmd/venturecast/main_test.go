package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/venturecast/internal/config"
	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/okian/venturecast/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestNewService(t *testing.T) {
	convey.Convey("Given a configuration", t, func() {
		cfg := config.New()

		convey.Convey("When the default mode is set", func() {
			cfg.DefaultMode = "decacorn"
			svc, err := newService(cfg)

			convey.Convey("Then the service starts in that mode", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.Mode(), convey.ShouldEqual, scoring.ModeDecacorn)
			})
		})

		convey.Convey("When the mode is unknown", func() {
			cfg.DefaultMode = "gigacorn"
			_, err := newService(cfg)

			convey.Convey("Then construction fails", func() {
				convey.So(errors.Is(err, scoring.ErrUnknownMode), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the baseline is invalid", func() {
			cfg.Baseline.BaseRate = 0
			_, err := newService(cfg)

			convey.Convey("Then construction fails", func() {
				convey.So(errors.Is(err, scoring.ErrInvalidBaseline), convey.ShouldBeTrue)
			})
		})
	})
}

func TestHTTPServer(t *testing.T) {
	convey.Convey("Given the HTTP server built from configuration", t, func() {
		cfg := config.New()
		cfg.MaxLeaderboardLimit = 5
		svc, err := newService(cfg)
		convey.So(err, convey.ShouldBeNil)
		srv := newHTTPServer(cfg, svc)

		convey.Convey("Then it carries the configured timeouts", func() {
			convey.So(srv.Addr, convey.ShouldEqual, ":9080")
			convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
		})

		convey.Convey("Then the API routes are registered", func() {
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)

			rec = httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then the leaderboard cap is applied", func() {
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=6", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a running server", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.SampleVentures = 5

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- run(ctx, cfg) }()

		convey.Convey("When the context is canceled", func() {
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("run did not return", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given an address that cannot be bound", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:99999"

		convey.Convey("Then run reports the listen error", func() {
			err := run(context.Background(), cfg)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(strings.Contains(err.Error(), "http server"), convey.ShouldBeTrue)
		})
	})
}

func TestConfigureLogging(t *testing.T) {
	convey.Convey("Given logging settings", t, func() {
		cfg := config.New()

		convey.Convey("Valid settings are applied", func() {
			cfg.LogFormat = "json"
			cfg.LogLevel = "debug"
			convey.So(configureLogging(cfg), convey.ShouldBeNil)
		})

		convey.Convey("An unknown format is reported", func() {
			cfg.LogFormat = "xml"
			convey.So(configureLogging(cfg), convey.ShouldNotBeNil)
		})

		convey.Reset(func() {
			_ = logger.Init()
			_ = logger.SetLevelString("info")
		})
	})
}
