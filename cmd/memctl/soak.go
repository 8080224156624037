package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/memkit/memkit/metrics"
	"github.com/memkit/memkit/track"
)

var (
	soakDuration time.Duration
	soakRate     int
	soakMaxLive  int
	soakListen   string
	soakSeed     int64
)

func init() {
	cmd := newSoakCmd()
	cmd.Flags().DurationVar(&soakDuration, "duration", 0, "Stop after this long (0 runs until interrupted)")
	cmd.Flags().IntVar(&soakRate, "rate", 1000, "Allocation operations per second")
	cmd.Flags().IntVar(&soakMaxLive, "max-live", 10000, "Free aggressively past this many live blocks")
	cmd.Flags().StringVar(&soakListen, "listen", "", "Serve Prometheus metrics on this address")
	cmd.Flags().Int64Var(&soakSeed, "seed", 1, "Random seed for the workload")
	rootCmd.AddCommand(cmd)
}

func newSoakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "soak",
		Short: "Run a continuous allocation workload",
		Long: `The soak command churns allocations at a steady rate until interrupted
or the duration elapses, printing a status line each second. With --listen
(or metrics enabled in the configuration) it exports the tracker's counters
as Prometheus metrics.

Example:
  memctl soak --duration 30s --rate 5000
  memctl soak --listen :9584
  memctl soak --config memkit.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSoak(cmd.Context())
		},
	}
}

func runSoak(parent context.Context) error {
	if soakRate < 1 || soakRate > 1_000_000 {
		return fmt.Errorf("soak: rate must be between 1 and 1000000, got %d", soakRate)
	}
	if soakMaxLive < 1 {
		return fmt.Errorf("soak: max-live must be at least 1, got %d", soakMaxLive)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if soakListen != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Listen = soakListen
	}

	tr, err := buildTracker(cfg)
	if err != nil {
		return err
	}
	defer tr.Close()

	if cfg.Metrics.Enabled {
		shutdown := serveMetrics(cfg.Metrics.Listen, cfg.Metrics.Path, tr)
		defer shutdown()
		printInfo("metrics on http://%s%s\n", cfg.Metrics.Listen, cfg.Metrics.Path)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if soakDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, soakDuration)
		defer cancel()
	}

	soakLoop(ctx, tr)

	printInfo("\n")
	return emitReports(tr, cfg.Report.BufferSize, cfg.Report.Out)
}

// soakLoop churns until ctx is done, then frees everything still live so
// the final reports show a clean table.
func soakLoop(ctx context.Context, tr *track.Tracker) {
	rng := rand.New(rand.NewSource(soakSeed))
	var live [][]byte

	ops := time.NewTicker(time.Second / time.Duration(soakRate))
	defer ops.Stop()
	status := time.NewTicker(time.Second)
	defer status.Stop()

	// Grouped digits keep large counters readable on the status line.
	p := message.NewPrinter(language.English)

	for {
		select {
		case <-ctx.Done():
			for _, b := range live {
				tr.Free(b, track.Here())
			}
			return

		case <-ops.C:
			if len(live) >= soakMaxLive || (len(live) > 0 && rng.Intn(10) < 3) {
				k := rng.Intn(len(live))
				tr.Free(live[k], track.Here())
				live = append(live[:k], live[k+1:]...)
				continue
			}
			size := 16 + rng.Intn(4096)
			b, err := tr.Malloc(size, track.Here())
			if err != nil {
				printError("soak allocation failed: %v\n", err)
				continue
			}
			live = append(live, b)

		case <-status.C:
			if quiet {
				continue
			}
			s := tr.Snapshot()
			p.Printf("\rlive %d blocks | in use %d bytes | peak %d bytes | %d allocs",
				tr.Live(), s.CurrentUsage(), s.PeakUsage, s.AllocCalls)
		}
	}
}

// serveMetrics starts the Prometheus endpoint and returns its shutdown.
func serveMetrics(listen, path string, tr *track.Tracker) func() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(tr, prometheus.Labels{"tool": "memctl"}))

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: listen, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			printError("metrics server: %v\n", err)
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
