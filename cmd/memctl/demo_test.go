package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDemoCommand(t *testing.T) {
	resetFlags(t)

	output, err := captureOutput(t, runDemo)
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}

	assertContains(t, output, []string{
		"Memory Manager Test Program",
		"=== MEMORY STATISTICS ===",
		"Total allocated:      1056 bytes",
		"Total freed:          656 bytes",
		"Current usage:        400 bytes",
		"Potential leaks:      1 objects",
		"=== CURRENT ALLOCATIONS ===",
		"  Total: 1 allocations, 400 bytes",
		"=== MEMORY LEAK REPORT ===",
		"  LEAK:    400 bytes at 0x",
		"  TOTAL LEAKS: 1 allocations, 400 bytes",
	})
	assertContains(t, output, []string{"demo.go:"})
}

func TestDemoCommandQuiet(t *testing.T) {
	resetFlags(t)
	quiet = true

	output, err := captureOutput(t, runDemo)
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}
	if output != "" {
		t.Errorf("quiet mode must print nothing, got: %s", output)
	}
}

func TestDemoCommandJSON(t *testing.T) {
	resetFlags(t)
	quiet = true // keep the banner out of the JSON stream
	jsonOut = true

	output, err := captureOutput(t, runDemo)
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}

	assertJSON(t, output)
	assertContains(t, output, []string{
		`"total_allocated": 1056`,
		`"potential_leaks": 1`,
		`"allocations"`,
		`"address"`,
	})
	assertNotContains(t, output, []string{"=== MEMORY STATISTICS ==="})
}

func TestDemoCommandTruncatedBuffer(t *testing.T) {
	resetFlags(t)
	demoBuffer = 10

	output, err := captureOutput(t, runDemo)
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}

	// Each report shrinks to its 9 byte prefix.
	assertContains(t, output, []string{"=== MEMOR"})
	assertNotContains(t, output, []string{"=== MEMORY STATISTICS ==="})
}

func TestDemoCommandOutFile(t *testing.T) {
	resetFlags(t)
	quiet = true
	demoOut = filepath.Join(t.TempDir(), "memkit_log.txt")

	if _, err := captureOutput(t, runDemo); err != nil {
		t.Fatalf("demo failed: %v", err)
	}

	data, err := os.ReadFile(demoOut)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	content := string(data)
	assertContains(t, content, []string{
		"=== MEMORY STATISTICS ===",
		"=== CURRENT ALLOCATIONS ===",
		"=== MEMORY LEAK REPORT ===",
	})
	if strings.Count(content, "===") < 6 {
		t.Errorf("expected three report blocks in the file, got: %s", content)
	}
}

func TestDemoCommandConfigFile(t *testing.T) {
	resetFlags(t)
	cfgPath = writeYAML(t, `
tracker:
  buckets: 64
  allocator: heap
report:
  buffer_size: 2048
`)

	output, err := captureOutput(t, runDemo)
	if err != nil {
		t.Fatalf("demo failed: %v", err)
	}
	assertContains(t, output, []string{"Hash table size:      64 buckets"})
}
