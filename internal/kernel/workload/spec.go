// Package workload drives a Scheduler through a scripted sequence of
// thread arrivals, producing a trace of the [A]/[B]/[C]/[E]-triggering
// decisions for the CLI and for deterministic integration tests. It is
// grounded on the teacher's internal/cron.Service: a declarative job
// list plus a ticker-driven loop that calls back into the thing being
// scheduled, adapted from calendar cron jobs to tick-indexed arrivals.
package workload

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ThreadSpec describes one thread to be admitted into the scheduler.
type ThreadSpec struct {
	ID          int    `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Priority    int    `yaml:"priority" json:"priority"`
	ArrivalTick int64  `yaml:"arrival_tick" json:"arrival_tick"`
	BurstTicks  int64  `yaml:"burst_ticks" json:"burst_ticks"`
}

// Spec is a whole workload: the threads to admit plus the scheduler
// constants to run them under.
type Spec struct {
	Threads     []ThreadSpec `yaml:"threads" json:"threads"`
	Quantum     int64        `yaml:"quantum_ticks" json:"quantum_ticks"`
	AgingPeriod int64        `yaml:"aging_period_ticks" json:"aging_period_ticks"`
	AgingFactor int          `yaml:"aging_factor" json:"aging_factor"`
	// MaxTicks bounds the simulation so a misconfigured workload cannot
	// spin the driver forever. 0 means "compute a sensible bound".
	MaxTicks int64 `yaml:"max_ticks" json:"max_ticks"`
}

// errors.go-style sentinel, matching the teacher's per-package error file
// convention (internal/scheduler/errors.go).
var (
	errNoThreads = fmt.Errorf("workload: spec has no threads")
)

// Load reads a Spec from a YAML or JSON file, chosen by extension: a
// ".json" file is decoded with encoding/json, any other file with yaml.v3.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("workload: read %s: %w", path, err)
	}

	spec := &Spec{Quantum: 100, AgingPeriod: 1500, AgingFactor: 10}

	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, spec); err != nil {
			return nil, fmt.Errorf("workload: parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, spec); err != nil {
			return nil, fmt.Errorf("workload: parse %s: %w", path, err)
		}
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Validate checks structural invariants the driver relies on: at least
// one thread, in-range priorities, and distinct ids.
func (s *Spec) Validate() error {
	if len(s.Threads) == 0 {
		return errNoThreads
	}
	seen := make(map[int]bool, len(s.Threads))
	for _, t := range s.Threads {
		if t.Priority < 0 || t.Priority >= 150 {
			return fmt.Errorf("workload: thread %d priority %d out of range [0, 150)", t.ID, t.Priority)
		}
		if t.BurstTicks <= 0 {
			return fmt.Errorf("workload: thread %d burst_ticks must be positive", t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("workload: duplicate thread id %d", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// sortedArrivals returns the spec's threads sorted by ascending arrival
// tick, breaking ties by id for determinism.
func (s *Spec) sortedArrivals() []ThreadSpec {
	out := append([]ThreadSpec(nil), s.Threads...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ArrivalTick != out[j].ArrivalTick {
			return out[i].ArrivalTick < out[j].ArrivalTick
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// totalBurst sums every thread's estimated burst, used to compute a
// default MaxTicks bound.
func (s *Spec) totalBurst() int64 {
	var sum int64
	for _, t := range s.Threads {
		sum += t.BurstTicks
	}
	return sum
}
