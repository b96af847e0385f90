// Package queue implements the three JobQueue disciplines the scheduler
// core dispatches through: SJFQueue (L1), PriorityQueue (L2), and RRQueue
// (L3). All three share an insertion-ordered backing slice and the
// Push/Remove logging contract; they differ only in RemoveBest, per
// original_source/code/threads/scheduler.cc.
package queue

import (
	"fmt"

	"github.com/waltsai2483/NachOS-MPX/internal/kernel/clock"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/logging"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/thread"
)

// JobQueue is the uniform contract every queue discipline implements. A
// thread is a member of at most one JobQueue at a time (Global invariants,
// SPEC_FULL.md §3).
type JobQueue interface {
	// Push appends thread to the tail of the queue and logs [A].
	Push(t *thread.Thread)
	// RemoveBest selects and removes a thread according to this queue's
	// discipline. ok is false if the queue is empty, or (SJFQueue only)
	// if the preemption guard says the running thread keeps the CPU.
	RemoveBest() (t *thread.Thread, ok bool)
	// Remove removes thread by handle and logs [B]. Panics if thread is
	// not a member (SPEC_FULL.md §7).
	Remove(t *thread.Thread)
	// IsEmpty reports whether the queue has no members.
	IsEmpty() bool
	// Contains reports membership by handle identity.
	Contains(t *thread.Thread) bool
	// ForEach calls f once per member, in insertion order, over a
	// snapshot taken at call time (safe against promotion during aging).
	ForEach(f func(*thread.Thread))
	// Name is the queue's log-facing identifier, e.g. "L[1]".
	Name() string
	// Level is the priority level this queue services.
	Level() Level
}

// base implements the shared push/remove/contains/for-each machinery that
// all three disciplines reuse; each discipline embeds it and supplies its
// own RemoveBest.
type base struct {
	level  Level
	items  []*thread.Thread
	clock  *clock.Clock
	logger *logging.Logger
}

func newBase(level Level, clk *clock.Clock, log *logging.Logger) base {
	return base{level: level, clock: clk, logger: log}
}

func (b *base) Name() string {
	return b.level.String()
}

func (b *base) Level() Level {
	return b.level
}

func (b *base) Push(t *thread.Thread) {
	b.items = append(b.items, t)
	b.logger.Inserted(b.clock.TotalTicks(), t.ID, b.Name())
}

func (b *base) Remove(t *thread.Thread) {
	idx := b.indexOf(t)
	if idx < 0 {
		panic(fmt.Sprintf("queue %s: Remove called on absent thread %d", b.Name(), t.ID))
	}
	b.items = append(b.items[:idx], b.items[idx+1:]...)
	b.logger.Removed(b.clock.TotalTicks(), t.ID, b.Name())
}

func (b *base) IsEmpty() bool {
	return len(b.items) == 0
}

func (b *base) Contains(t *thread.Thread) bool {
	return b.indexOf(t) >= 0
}

func (b *base) ForEach(f func(*thread.Thread)) {
	snapshot := make([]*thread.Thread, len(b.items))
	copy(snapshot, b.items)
	for _, t := range snapshot {
		f(t)
	}
}

func (b *base) indexOf(t *thread.Thread) int {
	for i, cur := range b.items {
		if cur == t {
			return i
		}
	}
	return -1
}

// CurrentThreadFunc lets a queue discipline (SJFQueue) consult the
// scheduler's notion of "currently running thread" without importing the
// scheduler package, avoiding an import cycle.
type CurrentThreadFunc func() *thread.Thread

// SJFQueue is the L1 discipline: shortest-remaining/estimated-burst first,
// with a preemption guard that lets a running L1 thread keep the CPU when
// its remaining time is shorter than the best candidate's burst (or equal,
// with the running thread holding the smaller id).
type SJFQueue struct {
	base
	current CurrentThreadFunc
}

// NewSJFQueue builds the L1 queue. current must return the scheduler's
// current thread (or nil), consulted by the preemption guard.
func NewSJFQueue(clk *clock.Clock, log *logging.Logger, current CurrentThreadFunc) *SJFQueue {
	return &SJFQueue{base: newBase(L1, clk, log), current: current}
}

// RemoveBest implements SPEC_FULL.md §4.2's SJFQueue.RemoveBest.
func (q *SJFQueue) RemoveBest() (*thread.Thread, bool) {
	if q.IsEmpty() {
		return nil, false
	}

	var best *thread.Thread
	for _, t := range q.items {
		if best == nil ||
			t.ApproxBurstTick < best.ApproxBurstTick ||
			(t.ApproxBurstTick == best.ApproxBurstTick && t.ID < best.ID) {
			best = t
		}
	}

	if q.current != nil {
		curr := q.current()
		if curr != nil && Classify(curr.Priority) == L1 && curr.Status == thread.Running {
			currTick := curr.ApproxRemainingTick
			bestTick := best.ApproxBurstTick
			if currTick < bestTick || (currTick == bestTick && curr.ID < best.ID) {
				return nil, false
			}
		}
	}

	q.Remove(best)
	return best, true
}

// PriorityQueue is the L2 discipline: highest static priority first, ties
// broken by ascending id.
type PriorityQueue struct {
	base
}

// NewPriorityQueue builds the L2 queue.
func NewPriorityQueue(clk *clock.Clock, log *logging.Logger) *PriorityQueue {
	return &PriorityQueue{base: newBase(L2, clk, log)}
}

// RemoveBest implements SPEC_FULL.md §4.2's PriorityQueue.RemoveBest.
func (q *PriorityQueue) RemoveBest() (*thread.Thread, bool) {
	if q.IsEmpty() {
		return nil, false
	}

	var best *thread.Thread
	for _, t := range q.items {
		if best == nil ||
			t.Priority > best.Priority ||
			(t.Priority == best.Priority && t.ID < best.ID) {
			best = t
		}
	}

	q.Remove(best)
	return best, true
}

// RRQueue is the L3 discipline: strict FIFO.
type RRQueue struct {
	base
}

// NewRRQueue builds the L3 queue.
func NewRRQueue(clk *clock.Clock, log *logging.Logger) *RRQueue {
	return &RRQueue{base: newBase(L3, clk, log)}
}

// RemoveBest implements SPEC_FULL.md §4.2's RRQueue.RemoveBest.
func (q *RRQueue) RemoveBest() (*thread.Thread, bool) {
	if q.IsEmpty() {
		return nil, false
	}
	head := q.items[0]
	q.Remove(head)
	return head, true
}
