package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/memkit/memkit/internal/buf"
)

// Op names accepted in a scenario.
const (
	OpAlloc   = "alloc"
	OpCalloc  = "calloc"
	OpRealloc = "realloc"
	OpFree    = "free"
)

// Scenario is a replayable allocation trace. Blocks are identified by tag:
// alloc and calloc push a block onto the tag's stack, realloc resizes the
// newest block of the tag, and free pops it.
type Scenario struct {
	Name string `yaml:"name"`
	Ops  []Op   `yaml:"ops"`
}

// Op is one step of a scenario.
type Op struct {
	// Op is the operation name: alloc, calloc, realloc or free.
	Op string `yaml:"op"`

	// Tag is the block identity the operation acts on.
	Tag string `yaml:"tag"`

	// Size is the byte count for alloc and realloc, or the element size
	// for calloc. Unused by free.
	Size int `yaml:"size"`

	// Count is the element count for calloc. Unused otherwise.
	Count int `yaml:"count"`

	// Repeat applies the operation this many times; 0 and 1 both mean once.
	Repeat int `yaml:"repeat"`
}

// Times reports how often the op applies.
func (o Op) Times() int {
	if o.Repeat < 1 {
		return 1
	}
	return o.Repeat
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks op names, sizes and tag references. Tag liveness is
// simulated across the trace so a free or realloc of a dead tag fails
// here instead of midway through a replay.
func (s *Scenario) Validate() error {
	if len(s.Ops) == 0 {
		return fmt.Errorf("scenario %q has no ops", s.Name)
	}
	depth := make(map[string]int)
	for i, op := range s.Ops {
		if op.Tag == "" {
			return fmt.Errorf("op %d (%s): missing tag", i, op.Op)
		}
		if op.Repeat < 0 {
			return fmt.Errorf("op %d (%s %q): negative repeat %d", i, op.Op, op.Tag, op.Repeat)
		}
		times := op.Times()

		switch op.Op {
		case OpAlloc:
			if op.Size <= 0 {
				return fmt.Errorf("op %d (alloc %q): size %d must be positive", i, op.Tag, op.Size)
			}
			depth[op.Tag] += times

		case OpCalloc:
			if op.Count <= 0 || op.Size <= 0 {
				return fmt.Errorf("op %d (calloc %q): count %d and size %d must be positive",
					i, op.Tag, op.Count, op.Size)
			}
			if _, ok := buf.MulOverflowSafe(op.Count, op.Size); !ok {
				return fmt.Errorf("op %d (calloc %q): %d x %d overflows", i, op.Tag, op.Count, op.Size)
			}
			depth[op.Tag] += times

		case OpRealloc:
			if op.Size <= 0 {
				return fmt.Errorf("op %d (realloc %q): size %d must be positive, use free to release",
					i, op.Tag, op.Size)
			}
			if depth[op.Tag] == 0 {
				return fmt.Errorf("op %d (realloc %q): no live block for tag", i, op.Tag)
			}

		case OpFree:
			if depth[op.Tag] < times {
				return fmt.Errorf("op %d (free %q): frees %d of %d live blocks",
					i, op.Tag, times, depth[op.Tag])
			}
			depth[op.Tag] -= times

		default:
			return fmt.Errorf("op %d: unknown op %q", i, op.Op)
		}
	}
	return nil
}

// Leaks reports the tags left live at the end of the trace, in first-use
// order. A scenario used for leak demonstrations ends with a non-empty
// result.
func (s *Scenario) Leaks() []string {
	depth := make(map[string]int)
	seen := make(map[string]bool)
	var order []string
	for _, op := range s.Ops {
		switch op.Op {
		case OpAlloc, OpCalloc:
			if !seen[op.Tag] {
				seen[op.Tag] = true
				order = append(order, op.Tag)
			}
			depth[op.Tag] += op.Times()
		case OpFree:
			depth[op.Tag] -= op.Times()
		}
	}
	var live []string
	for _, tag := range order {
		if depth[tag] > 0 {
			live = append(live, tag)
		}
	}
	return live
}
