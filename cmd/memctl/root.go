package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memkit/memkit/config"
	"github.com/memkit/memkit/track"
	"github.com/memkit/memkit/track/report"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "memctl",
	Short: "Exercise and inspect tracked memory allocations",
	Long: `memctl drives a tracking allocator through demonstration, replay and
soak workloads and renders its statistics, live-allocation and leak reports.
Reports use fixed-capacity buffers, so output is always bounded and safe to
embed in constrained environments.`,
	Version: "0.1.0",
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to a YAML configuration file")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config when given, the defaults otherwise.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

// buildTracker assembles a tracker from the configuration. Diagnostics go
// to stderr; --verbose lowers the level to debug.
func buildTracker(cfg *config.Config) (*track.Tracker, error) {
	if verbose {
		cfg.Logging.Level = "debug"
	}
	opts, err := cfg.TrackerOptions(cfg.Logger(os.Stderr))
	if err != nil {
		return nil, err
	}
	return track.New(opts)
}

// emitReports renders the statistics, live-allocation and leak reports
// through one bounded buffer, printing them and appending to outPath when
// it is set. This mirrors the classic triple: stats, allocations, leaks.
func emitReports(tr *track.Tracker, bufferSize int, outPath string) error {
	dst := make([]byte, bufferSize)
	var blocks []string
	for _, render := range []func([]byte) int{tr.StatsReport, tr.AllocationsReport, tr.LeaksReport} {
		if n := render(dst); n > 0 {
			blocks = append(blocks, string(dst[:n])+"\n")
		}
	}
	for _, block := range blocks {
		printInfo("%s", block)
	}
	if outPath != "" {
		printVerbose("appending reports to %s\n", outPath)
		sink := report.NewFileSink(outPath)
		if err := sink.Append([]byte(strings.Join(blocks, ""))); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	return printJSONTo(os.Stdout, v)
}

func printJSONTo(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
