package seed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/venturecast/internal/domain/model"
	"github.com/okian/venturecast/pkg/logger"
)

// Run generates ventures, submits them concurrently, optionally replays
// their labels as observed outcomes through the asynchronous path, waits
// for those to be applied and reports the resulting calibration.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Get().Named("seed")
	start := time.Now()
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	stats := &Stats{}

	if err := client.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}
	var before calibrationReport
	if err := client.do(ctx, http.MethodGet, "/calibration", nil, http.StatusOK, &before); err != nil {
		return nil, fmt.Errorf("read calibration: %w", err)
	}

	ventures := NewGenerator(WithSeed(cfg.Seed)).Ventures(cfg.Ventures)
	labels := make([]model.Outcome, len(ventures))
	if cfg.Replay {
		for i := range ventures {
			labels[i] = ventures[i].ActualOutcome
			ventures[i].ActualOutcome = model.OutcomeActive
		}
	}

	ids, err := createVentures(ctx, client, cfg.Workers, ventures, stats)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "ventures submitted",
		logger.Int("created", stats.VenturesCreated),
		logger.Int("failed", stats.VenturesFailed),
	)

	if cfg.Replay {
		if err := replayOutcomes(ctx, client, cfg.Workers, ids, labels, stats); err != nil {
			return nil, err
		}
		log.Info(ctx, "outcomes submitted",
			logger.Int("accepted", stats.OutcomesAccepted),
			logger.Int("rejected", stats.OutcomesRejected),
		)
	}

	report, err := waitForEvents(ctx, client, before.EventCount+stats.OutcomesAccepted, cfg)
	if err != nil {
		return nil, err
	}
	stats.EventCount = report.EventCount
	stats.Offset = report.Offset
	stats.Brier = report.Brier

	if cfg.TopN > 0 {
		path := "/leaderboard?limit=" + strconv.Itoa(cfg.TopN)
		if err := client.do(ctx, http.MethodGet, path, nil, http.StatusOK, &stats.Leaderboard); err != nil {
			return nil, fmt.Errorf("read leaderboard: %w", err)
		}
	}

	stats.Duration = time.Since(start)
	fields := []logger.Field{
		logger.Int("events", stats.EventCount),
		logger.Float64("offset", stats.Offset),
		logger.Int("leaderboard", len(stats.Leaderboard)),
		logger.Duration("took", stats.Duration),
	}
	if stats.Brier != nil {
		fields = append(fields, logger.Float64("brier", *stats.Brier))
	}
	log.Info(ctx, "seeding completed", fields...)
	return stats, nil
}

// createVentures posts every venture with at most workers requests in
// flight. ids[i] is empty when venture i was not created.
func createVentures(ctx context.Context, c *httpClient, workers int, ventures []model.Venture, stats *Stats) ([]string, error) {
	ids := make([]string, len(ventures))
	var created, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := range ventures {
		g.Go(func() error {
			var out createdVenture
			err := c.do(gctx, http.MethodPost, "/ventures", &ventures[i], http.StatusCreated, &out)
			var se *StatusError
			switch {
			case err == nil:
				ids[i] = out.ID
				created.Add(1)
				return nil
			case errors.As(err, &se):
				failed.Add(1)
				return nil
			default:
				return fmt.Errorf("create %s: %w", ventures[i].Name, err)
			}
		})
	}
	err := g.Wait()
	stats.VenturesCreated = int(created.Load())
	stats.VenturesFailed = int(failed.Load())
	return ids, err
}

// replayOutcomes submits the terminal labels to POST /outcomes. A 429 is
// counted as rejected rather than failing the run.
func replayOutcomes(ctx context.Context, c *httpClient, workers int, ids []string, labels []model.Outcome, stats *Stats) error {
	var accepted, rejected atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, id := range ids {
		if id == "" || !labels[i].IsTerminal() {
			continue
		}
		g.Go(func() error {
			body := outcomeRequest{VentureID: id, Outcome: labels[i].String()}
			err := c.do(gctx, http.MethodPost, "/outcomes", body, http.StatusAccepted, nil)
			var se *StatusError
			switch {
			case err == nil:
				accepted.Add(1)
				return nil
			case errors.As(err, &se) && se.Code == http.StatusTooManyRequests:
				rejected.Add(1)
				return nil
			default:
				return fmt.Errorf("submit outcome for %s: %w", id, err)
			}
		})
	}
	err := g.Wait()
	stats.OutcomesAccepted = int(accepted.Load())
	stats.OutcomesRejected = int(rejected.Load())
	return err
}

// waitForEvents polls the calibration report until it holds at least want
// events or the drain timeout passes.
func waitForEvents(ctx context.Context, c *httpClient, want int, cfg *Config) (calibrationReport, error) {
	deadline := time.Now().Add(cfg.DrainTimeout)
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	for {
		var r calibrationReport
		if err := c.do(ctx, http.MethodGet, "/calibration", nil, http.StatusOK, &r); err != nil {
			return r, fmt.Errorf("read calibration: %w", err)
		}
		if r.EventCount >= want || time.Now().After(deadline) {
			return r, nil
		}
		select {
		case <-ctx.Done():
			return r, ctx.Err()
		case <-time.After(interval):
		}
	}
}
