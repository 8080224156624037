package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Operation   string
	Variant     string // "tracked", "raw", or "" for unpaired benchmarks
	Size        string
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// OverheadResult pairs a tracked benchmark with its raw baseline.
type OverheadResult struct {
	Operation     string
	Size          string
	TrackedNs     float64
	RawNs         float64
	Overhead      float64
	TrackedMem    int64
	RawMem        int64
	TrackedAllocs int64
	RawAllocs     int64
	TrackedOnly   bool
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	// Read benchmark output
	var scanner *bufio.Scanner
	var inputF *os.File
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		inputF = f
		scanner = bufio.NewScanner(f)
	} else {
		scanner = bufio.NewScanner(os.Stdin)
	}

	// Parse benchmarks
	results := parseBenchmarks(scanner)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	// Pair tracked runs with raw baselines
	overheads := pairVariants(results)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Paired %d benchmarks\n", len(overheads))
	}

	// Generate markdown report
	report := generateMarkdownReport(overheads)

	// Write output
	if *outputFile != "" {
		err := os.WriteFile(*outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			if inputF != nil {
				inputF.Close()
			}
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}

	// Close input file if opened
	if inputF != nil {
		inputF.Close()
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	// Regex to parse benchmark output lines
	// BenchmarkTrackingOverhead/tracked-8    1000000    1124 ns/op    144 B/op    3 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+(?:B|MB)/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
	)

	for scanner.Scan() {
		line := scanner.Text()

		// Try to parse as JSON (from -json flag)
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		// Parse benchmark line
		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)

		var bytesPerOp int64
		var allocsPerOp int64

		if matches[4] != "" {
			bytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			allocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}

		operation, variant, size := splitBenchmarkName(name)

		results = append(results, BenchmarkResult{
			Name:        name,
			Operation:   operation,
			Variant:     variant,
			Size:        size,
			Iterations:  iterations,
			NsPerOp:     nsPerOp,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return results
}

// splitBenchmarkName decomposes a benchmark name into operation, variant,
// and size label. Recognized shapes:
//
//	BenchmarkMallocFree-8
//	BenchmarkTrackingOverhead/tracked-8
//	BenchmarkTrackingOverhead/raw-8
//	BenchmarkStatsReport/1000-8
//	BenchmarkMalloc/tracked/4096-8
func splitBenchmarkName(name string) (operation, variant, size string) {
	parts := strings.Split(name, "/")

	operation = strings.TrimPrefix(parts[0], "Benchmark")
	if len(parts) == 1 {
		operation = stripProcs(operation)
		return operation, "", ""
	}

	rest := parts[1:]
	rest[len(rest)-1] = stripProcs(rest[len(rest)-1])

	switch rest[0] {
	case "tracked", "raw":
		variant = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		size = strings.Join(rest, "/")
	}
	return operation, variant, size
}

// stripProcs removes the trailing -N GOMAXPROCS suffix.
func stripProcs(s string) string {
	dashIdx := strings.LastIndex(s, "-")
	if dashIdx > 0 {
		if _, err := strconv.Atoi(s[dashIdx+1:]); err == nil {
			return s[:dashIdx]
		}
	}
	return s
}

func pairVariants(results []BenchmarkResult) []OverheadResult {
	// Group results by operation and size
	type key struct {
		operation string
		size      string
	}

	grouped := make(map[key]map[string]BenchmarkResult)

	for _, result := range results {
		k := key{result.Operation, result.Size}
		if grouped[k] == nil {
			grouped[k] = make(map[string]BenchmarkResult)
		}
		variant := result.Variant
		if variant == "" {
			variant = "tracked"
		}
		grouped[k][variant] = result
	}

	var overheads []OverheadResult

	for k, variants := range grouped {
		tracked, hasTracked := variants["tracked"]
		raw, hasRaw := variants["raw"]

		if hasTracked && hasRaw {
			// Both variants exist - compute the overhead factor
			overheads = append(overheads, OverheadResult{
				Operation:     k.operation,
				Size:          k.size,
				TrackedNs:     tracked.NsPerOp,
				RawNs:         raw.NsPerOp,
				Overhead:      tracked.NsPerOp / raw.NsPerOp,
				TrackedMem:    tracked.BytesPerOp,
				RawMem:        raw.BytesPerOp,
				TrackedAllocs: tracked.AllocsPerOp,
				RawAllocs:     raw.AllocsPerOp,
				TrackedOnly:   false,
			})
		} else if hasTracked {
			// No raw baseline for this benchmark
			overheads = append(overheads, OverheadResult{
				Operation:     k.operation,
				Size:          k.size,
				TrackedNs:     tracked.NsPerOp,
				TrackedMem:    tracked.BytesPerOp,
				TrackedAllocs: tracked.AllocsPerOp,
				TrackedOnly:   true,
			})
		}
	}

	// Sort by operation then size
	sort.Slice(overheads, func(i, j int) bool {
		if overheads[i].Operation != overheads[j].Operation {
			return overheads[i].Operation < overheads[j].Operation
		}
		return overheads[i].Size < overheads[j].Size
	})

	return overheads
}

func generateMarkdownReport(overheads []OverheadResult) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Tracking Overhead Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	// Summary statistics
	paired := 0
	trackedOnly := 0
	totalOverhead := 0.0

	for _, o := range overheads {
		if o.TrackedOnly {
			trackedOnly++
		} else {
			paired++
			totalOverhead += o.Overhead
		}
	}

	avgOverhead := 0.0
	if paired > 0 {
		avgOverhead = totalOverhead / float64(paired)
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total benchmarks**: %d\n", len(overheads)))
	sb.WriteString(fmt.Sprintf("- **Paired** (tracked vs raw): %d\n", paired))
	if paired > 0 {
		sb.WriteString(fmt.Sprintf("  - Average overhead: **%.2fx**\n", avgOverhead))
	}
	sb.WriteString(fmt.Sprintf("- **Without raw baseline**: %d\n", trackedOnly))
	sb.WriteString("\n")

	// Detailed results table
	sb.WriteString("## Detailed Results\n\n")
	sb.WriteString(
		"| Benchmark | Size | tracked (ns/op) | raw (ns/op) | Overhead | Memory (B/op) | Allocs |\n",
	)
	sb.WriteString(
		"|-----------|------|-----------------|-------------|----------|---------------|--------|\n",
	)

	for _, o := range overheads {
		if o.TrackedOnly {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | *N/A* | *no baseline* | %s | %s |\n",
				o.Operation,
				orDash(o.Size),
				formatNumber(o.TrackedNs),
				formatBytes(o.TrackedMem),
				formatNumber(float64(o.TrackedAllocs)),
			))
		} else {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | **%.2fx** | %s vs %s | %s vs %s |\n",
				o.Operation,
				orDash(o.Size),
				formatNumber(o.TrackedNs),
				formatNumber(o.RawNs),
				o.Overhead,
				formatBytes(o.TrackedMem),
				formatBytes(o.RawMem),
				formatNumber(float64(o.TrackedAllocs)),
				formatNumber(float64(o.RawAllocs)),
			))
		}
	}

	sb.WriteString("\n")

	// Category summaries
	sb.WriteString("## Overhead by Category\n\n")

	categories := categorizeOperations(overheads)
	for _, category := range []string{"Allocation path", "Record table", "Reports", "Other"} {
		comps := categories[category]
		if len(comps) == 0 {
			continue
		}

		avg := 0.0
		count := 0
		for _, o := range comps {
			if !o.TrackedOnly {
				avg += o.Overhead
				count++
			}
		}

		if count > 0 {
			avg /= float64(count)
			sb.WriteString(fmt.Sprintf("- **%s**: %.2fx average overhead across %d paired benchmarks\n",
				category, avg, count))
		} else {
			sb.WriteString(fmt.Sprintf("- **%s**: %d benchmarks, no raw baseline\n",
				category, len(comps)))
		}
	}

	sb.WriteString("\n")

	// Notes
	sb.WriteString("## Notes\n\n")
	sb.WriteString("- **Overhead = tracked ns/op divided by raw ns/op**: 1.00x means tracking is free\n")
	sb.WriteString("- **raw**: the same workload against the allocator with no tracking layer\n")
	sb.WriteString("- **Memory and allocations**: per-operation costs, lower is better\n")
	sb.WriteString("- Benchmarks without a raw baseline measure tracker-internal paths\n")

	return sb.String()
}

func categorizeOperations(overheads []OverheadResult) map[string][]OverheadResult {
	categories := map[string][]OverheadResult{
		"Allocation path": {},
		"Record table":    {},
		"Reports":         {},
		"Other":           {},
	}

	for _, o := range overheads {
		op := strings.ToLower(o.Operation)

		switch {
		case strings.Contains(op, "malloc") || strings.Contains(op, "calloc") ||
			strings.Contains(op, "realloc") || strings.Contains(op, "free") ||
			strings.Contains(op, "overhead"):
			categories["Allocation path"] = append(categories["Allocation path"], o)
		case strings.Contains(op, "register") || strings.Contains(op, "table") ||
			strings.Contains(op, "lookup") || strings.Contains(op, "walk"):
			categories["Record table"] = append(categories["Record table"], o)
		case strings.Contains(op, "report") || strings.Contains(op, "stats") ||
			strings.Contains(op, "leaks") || strings.Contains(op, "allocations") ||
			strings.Contains(op, "json"):
			categories["Reports"] = append(categories["Reports"], o)
		default:
			categories["Other"] = append(categories["Other"], o)
		}
	}

	return categories
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatNumber(n float64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.2fM", n/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.0f", n)
}

func formatBytes(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%.2fMB", float64(b)/(1024*1024))
	} else if b >= 1024 {
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	}
	return fmt.Sprintf("%dB", b)
}
