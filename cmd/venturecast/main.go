// Command venturecast serves venture outcome predictions over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/venturecast/internal/adapters/http/api"
	"github.com/okian/venturecast/internal/adapters/http/swagger"
	app "github.com/okian/venturecast/internal/app"
	"github.com/okian/venturecast/internal/config"
	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/okian/venturecast/pkg/logger"
	"github.com/okian/venturecast/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		// The logger is not available yet.
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}
	if err := configureLogging(cfg); err != nil {
		logger.Get().Warn(ctx, "invalid logging settings; keeping defaults", logger.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "venturecast exited", logger.Error(err))
		os.Exit(1)
	}
}

// configureLogging applies the configured output format and level.
func configureLogging(cfg *config.Config) error {
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	if err := logger.InitWith(os.Stdout, format); err != nil {
		return err
	}
	return logger.SetLevelString(cfg.LogLevel)
}

// run serves until ctx is canceled, then shuts the server down and drains
// queued outcomes.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get().Named("main")

	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	srv := newHTTPServer(cfg, svc)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
		}
		if err := svc.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("drain outcomes: %w", err)
		}
		log.Info(shutdownCtx, "server stopped")
		return nil
	})

	return g.Wait()
}

// newService builds the predictor from configuration.
func newService(cfg *config.Config) (*app.Service, error) {
	mode, err := scoring.ParseMode(cfg.DefaultMode)
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLogger(logger.Get().Named("service")),
		app.WithBaseline(cfg.Baseline),
		app.WithParameters(cfg.Calibration.Parameters),
		app.WithLearningRate(cfg.Calibration.LearningRate),
		app.WithMode(mode),
		app.WithQueueSize(cfg.QueueSize),
		app.WithSampleVentures(cfg.SampleVentures, cfg.SampleSeed),
	)
}

func newHTTPServer(cfg *config.Config, svc *app.Service) *http.Server {
	mux := http.NewServeMux()
	api.NewServer(svc, cfg.MaxLeaderboardLimit).Register(mux)
	swagger.Register(mux)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.HeapAlloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
