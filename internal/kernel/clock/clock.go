// Package clock models the two platform collaborators the scheduler core
// leans on: a monotonically non-decreasing tick counter and the interrupt
// gate that is the core's only mutual-exclusion primitive (SPEC_FULL.md §5
// explains why a sync.Mutex cannot be used here: a lock acquisition could
// itself re-enter FindNextToRun).
package clock

import "fmt"

// Level is the interrupt state: on (interruptible) or off (the scheduler's
// critical section).
type Level int

const (
	IntOn Level = iota
	IntOff
)

func (l Level) String() string {
	if l == IntOff {
		return "off"
	}
	return "on"
}

// Clock is the platform collaborator consumed by the scheduler: it
// supplies stats.total_ticks and the interrupt gate. It is injected into
// Scheduler at construction rather than reached through a process-wide
// global (Design Notes, "no global kernel handle").
//
// Clock has no internal synchronization of its own: per the scheduling
// model, every method is only ever called while the caller already holds
// the interrupt gate (i.e. from the single logical thread of control that
// "owns" the machine at a time), so there is nothing left for a mutex to
// protect against.
type Clock struct {
	totalTicks int64
	level      Level
}

// New returns a Clock with interrupts enabled and the tick counter at zero.
func New() *Clock {
	return &Clock{level: IntOn}
}

// TotalTicks returns the current value of the global tick counter.
func (c *Clock) TotalTicks() int64 {
	return c.totalTicks
}

// Advance moves the tick counter forward by n ticks. Called by the
// workload driver (or a test) between scheduling decisions; never called
// by the core itself.
func (c *Clock) Advance(n int64) {
	if n < 0 {
		panic(fmt.Sprintf("clock: negative tick advance %d", n))
	}
	c.totalTicks += n
}

// Level reports whether interrupts are currently enabled or disabled.
func (c *Clock) Level() Level {
	return c.level
}

// SetLevel sets the interrupt level and returns the previous one, mirroring
// NachOS's interrupt->SetLevel.
func (c *Clock) SetLevel(l Level) Level {
	prev := c.level
	c.level = l
	return prev
}

// Disable turns interrupts off and returns the previous level, so the
// caller can restore it later. Equivalent to kernel->interrupt->SetLevel(IntOff).
func (c *Clock) Disable() Level {
	return c.SetLevel(IntOff)
}

// Restore sets the interrupt level back to a previously saved value.
func (c *Clock) Restore(prev Level) {
	c.SetLevel(prev)
}

// AssertInterruptsOff panics if interrupts are currently enabled. Every
// scheduler entry point calls this first; it is the assertion called out
// in SPEC_FULL.md §7 ("interrupts not disabled at a core entry point").
func (c *Clock) AssertInterruptsOff() {
	if c.level != IntOff {
		panic("clock: scheduler entry point called with interrupts enabled")
	}
}
