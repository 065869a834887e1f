// Command seed fills a running venturecast service with generated ventures
// and, optionally, replays their labels as observed outcomes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/venturecast/internal/seed"
	"github.com/okian/venturecast/pkg/logger"
)

const (
	defaultVentures = 50
	defaultTopN     = 10
	defaultWorkers  = 2 // multiplier for runtime.NumCPU()
	defaultTimeout  = 10 * time.Second
	runTimeout      = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		ventures  = flag.Int("ventures", defaultVentures, "Number of ventures to generate and submit")
		seedValue = flag.Int64("seed", 42, "Generator seed")
		replay    = flag.Bool("replay", false, "Submit generated labels as observed outcomes")
		topN      = flag.Int("top", defaultTopN, "Number of leaderboard entries to fetch")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent requests")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		drain     = flag.Duration("drain", 30*time.Second, "How long to wait for replayed outcomes to apply")
		format    = flag.String("log-format", "text", "Log format: text or json")
	)
	flag.Parse()

	logFormat, err := logger.ParseFormat(*format)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	if err := logger.InitWith(os.Stdout, logFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	stats, err := seed.Run(ctx, &seed.Config{
		BaseURL:      *baseURL,
		Ventures:     *ventures,
		Seed:         *seedValue,
		Replay:       *replay,
		TopN:         *topN,
		Workers:      *workers,
		Timeout:      *timeout,
		DrainTimeout: *drain,
		PollInterval: 100 * time.Millisecond,
	})
	if err != nil {
		logger.Get().Error(ctx, "seeding failed", logger.Error(err))
		os.Exit(1)
	}

	for _, e := range stats.Leaderboard {
		fmt.Printf("%3d  %-24s %.4f\n", e.Rank, e.Name, e.Probability)
	}
}
