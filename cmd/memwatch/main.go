package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/memkit/memkit/cmd/memwatch/logger"
)

func main() {
	args := os.Args[1:]
	debugMode := false

	// Extract --debug/-d flag
	filteredArgs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			debugMode = true
		} else {
			filteredArgs = append(filteredArgs, arg)
		}
	}

	// Initialize logger (must be before any logging calls)
	logPath, err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	if len(filteredArgs) > 0 {
		switch filteredArgs[0] {
		case "--help", "-h":
			printHelp()
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("memwatch %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built: %s\n", date)
			os.Exit(0)
		default:
			printUsage()
			os.Exit(1)
		}
	}

	logger.Info("starting memwatch", "debug", debugMode, "log", logPath)

	m := NewModel(defaultSeed)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	// Clean up resources
	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			// Log error but don't fail - cleanup is best effort
			logger.Warn("error closing tracker", "error", err)
		}
	}

	logger.Info("memwatch exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: memwatch [options]\n")
	fmt.Fprintf(os.Stderr, "Try 'memwatch --help' for more information.\n")
}

func printHelp() {
	fmt.Println("memwatch - Live terminal dashboard for tracked allocations")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  memwatch [options]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Runs a synthetic allocation workload against the tracking layer and")
	fmt.Println("  renders its counters live in the terminal.")
	fmt.Println()
	fmt.Println("  Features:")
	fmt.Println("    - Running totals (allocated, freed, usage, peak)")
	fmt.Println("    - Largest live allocations with call sites and ages")
	fmt.Println("    - Usage gauge scaled against the peak")
	fmt.Println("    - Adjustable churn rate, pause and single-step")
	fmt.Println()
	fmt.Println("  Keys:")
	fmt.Println("    space/p     Pause/resume the workload")
	fmt.Println("    s           Single step while paused")
	fmt.Println("    b           Allocate a burst of blocks")
	fmt.Println("    f           Free every live block")
	fmt.Println("    +/-         Double/halve the churn rate")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.memwatch/logs/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  memwatch")
	fmt.Println("  memwatch --debug")
	fmt.Println()
	fmt.Println("For scripted runs and reports, use the 'memctl' command instead.")
}
