package workload

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/waltsai2483/NachOS-MPX/internal/kernel/clock"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/logging"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/machine"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/scheduler"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/thread"
)

// EventKind classifies a single line of a workload trace.
type EventKind string

const (
	EventArrival  EventKind = "arrival"
	EventDispatch EventKind = "dispatch"
	EventFinish   EventKind = "finish"
)

// Event is one recorded moment of the simulation, suitable for the CLI's
// `nachos trace` output or for asserting a deterministic replay in tests.
type Event struct {
	Tick     int64     `json:"tick"`
	Kind     EventKind `json:"kind"`
	ThreadID int       `json:"thread_id"`
	Detail   string    `json:"detail,omitempty"`
}

// Driver replays a Spec against a Scheduler, stepping an owned Clock one
// tick at a time and calling ReadyToRun/FindNextToRun/ElevateThreads/Run
// in the order a real timer interrupt handler would. It uses
// machine.SyncMachine: the driver is a single-goroutine discrete-event
// simulation, not a real multi-stack dispatch, so there is nothing for a
// cooperative goroutine handoff to coordinate (see
// internal/kernel/machine's doc comment on when SyncMachine is
// appropriate).
//
// Driver is safe for concurrent use the way the teacher's SessionQueue/
// cron.Service are (a mutex-guarded event log) even though, unlike the
// scheduler core, it is not on the interrupt-gate critical path itself —
// it merely brackets each scheduler call with Disable/Restore.
type Driver struct {
	mu    sync.Mutex
	runID uuid.UUID

	sched *scheduler.Scheduler
	clock *clock.Clock
	spec  *Spec

	trace []Event
}

// NewDriver builds a Driver around a fresh Scheduler and Clock configured
// from spec's constants. A nil logger falls back to slog.Default(),
// matching internal/kernel/logging.New's own nil-handling.
func NewDriver(spec *Spec, log *logging.Logger) *Driver {
	if log == nil {
		log = logging.New(nil)
	}
	clk := clock.New()
	cfg := scheduler.Config{AgingPeriod: spec.AgingPeriod, AgingFactor: spec.AgingFactor}
	sched := scheduler.New(clk, log, machine.SyncMachine{}, cfg)
	return &Driver{runID: uuid.New(), sched: sched, clock: clk, spec: spec}
}

// RunID identifies this driver's simulation run, for correlating CLI
// trace output the way the teacher correlates agent runs by RunID.
func (d *Driver) RunID() uuid.UUID {
	return d.runID
}

// Scheduler exposes the underlying scheduler, e.g. for a caller that
// wants to inspect queue contents directly after Run returns.
func (d *Driver) Scheduler() *scheduler.Scheduler {
	return d.sched
}

// Run replays the workload to completion (every thread finished) or until
// ctx is cancelled or the tick bound is reached, whichever comes first.
// It returns the full event trace.
func (d *Driver) Run(ctx context.Context) ([]Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	arrivals := d.spec.sortedArrivals()
	arrivalIdx := 0

	maxTicks := d.spec.MaxTicks
	if maxTicks <= 0 {
		maxTicks = d.spec.totalBurst()*2 + d.spec.Quantum + 1
	}

	quantum := d.spec.Quantum
	if quantum <= 0 {
		quantum = 100
	}
	ticksSinceSwitch := int64(0)
	remaining := len(arrivals)

	for tick := int64(0); tick <= maxTicks && remaining > 0; tick++ {
		if err := ctx.Err(); err != nil {
			return d.trace, err
		}
		d.clock.Advance(boolToInt64(tick > 0))

		prev := d.clock.Disable()
		admitted := false
		for arrivalIdx < len(arrivals) && arrivals[arrivalIdx].ArrivalTick <= tick {
			spec := arrivals[arrivalIdx]
			t := thread.New(spec.ID, spec.Name, spec.Priority, spec.BurstTicks, d.clock.TotalTicks())
			t.ApproxRemainingTick = spec.BurstTicks
			d.record(Event{Tick: tick, Kind: EventArrival, ThreadID: spec.ID, Detail: spec.Name})
			d.sched.ReadyToRun(t)
			arrivalIdx++
			admitted = true
		}

		d.sched.ElevateThreads()

		current := d.sched.Current()
		burstExhausted := current != nil && current.Status == thread.Running && current.ApproxRemainingTick <= 0
		quantumExpired := current != nil && ticksSinceSwitch >= quantum

		needsCheck := current == nil || admitted || burstExhausted || quantumExpired
		if needsCheck {
			switched := d.tryDispatch(tick, burstExhausted)
			switch {
			case switched && burstExhausted:
				ticksSinceSwitch = 0
				remaining--
			case switched:
				ticksSinceSwitch = 0
			case burstExhausted:
				// No other thread is ready to take the CPU, but the
				// current thread is done: retire it directly rather than
				// leaving it "running" forever with nothing left to do.
				current.Status = thread.Finished
				d.record(Event{Tick: tick, Kind: EventFinish, ThreadID: current.ID})
				remaining--
			}
		}

		if cur := d.sched.Current(); cur != nil && cur.Status == thread.Running {
			cur.AddTick(1)
			ticksSinceSwitch++
		}
		d.clock.Restore(prev)
	}

	return d.trace, nil
}

// tryDispatch asks the scheduler for the next thread to run and, if one
// is selected, performs the hand-off (Bootstrap for the very first
// dispatch, Run thereafter). It returns whether a switch occurred.
func (d *Driver) tryDispatch(tick int64, oldFinishing bool) bool {
	next, ok := d.sched.FindNextToRun()
	if !ok {
		return false
	}

	old := d.sched.Current()
	if old == nil {
		d.sched.Bootstrap(next)
		d.record(Event{Tick: tick, Kind: EventDispatch, ThreadID: next.ID, Detail: "initial dispatch"})
		return true
	}

	if !oldFinishing {
		if old.Status != thread.Finished {
			d.sched.ReadyToRun(old)
		}
	} else {
		d.record(Event{Tick: tick, Kind: EventFinish, ThreadID: old.ID})
	}

	d.sched.Run(next, oldFinishing)
	d.record(Event{Tick: tick, Kind: EventDispatch, ThreadID: next.ID, Detail: fmt.Sprintf("replaced %d", old.ID)})
	return true
}

func (d *Driver) record(e Event) {
	d.trace = append(d.trace, e)
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
