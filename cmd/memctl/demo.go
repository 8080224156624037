package main

import (
	"github.com/spf13/cobra"

	"github.com/memkit/memkit/track"
)

var (
	demoOut    string
	demoBuffer int
)

func init() {
	cmd := newDemoCmd()
	cmd.Flags().StringVar(&demoOut, "out", "", "Append the reports to a file")
	cmd.Flags().IntVar(&demoBuffer, "buffer", 0, "Report buffer size in bytes (default from config)")
	rootCmd.AddCommand(cmd)
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the classic demonstration workload",
		Long: `The demo command allocates three blocks (an int array, a zeroed char
buffer and a double array), frees two of them and deliberately leaks the
third, then renders the statistics, live-allocation and leak reports.

Example:
  memctl demo
  memctl demo --buffer 256
  memctl demo --out memkit_log.txt
  memctl demo --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if demoOut != "" {
		cfg.Report.Out = demoOut
	}
	if demoBuffer > 0 {
		cfg.Report.BufferSize = demoBuffer
	}

	tr, err := buildTracker(cfg)
	if err != nil {
		return err
	}
	defer tr.Close()

	printInfo("Memory Manager Test Program\n")
	printInfo("===========================\n")
	printVerbose("tracker: %d buckets, allocator %q\n", tr.Buckets(), cfg.Tracker.Allocator)

	if err := demoWorkload(tr); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(tr.Document())
	}
	return emitReports(tr, cfg.Report.BufferSize, cfg.Report.Out)
}

// demoWorkload mirrors a typical instrumented C program: one hundred ints,
// a zeroed 256 byte text buffer and fifty doubles, with the doubles left
// live on purpose so the leak report has something to say.
func demoWorkload(tr *track.Tracker) error {
	printVerbose("Testing memory allocation...\n")

	numbers, err := tr.Malloc(100*4, track.Here())
	if err != nil {
		return err
	}
	text, err := tr.Calloc(256, 1, track.Here())
	if err != nil {
		return err
	}
	// The double array is allocated and never freed on purpose.
	if _, err := tr.Malloc(50*8, track.Here()); err != nil {
		return err
	}

	for i := range 100 {
		n := uint32(i * i)
		numbers[i*4] = byte(n)
		numbers[i*4+1] = byte(n >> 8)
		numbers[i*4+2] = byte(n >> 16)
		numbers[i*4+3] = byte(n >> 24)
	}

	tr.Free(numbers, track.Here())
	tr.Free(text, track.Here())
	return nil
}
