// Package scheduler implements the multilevel feedback CPU scheduler core
// described in SPEC_FULL.md §4: three ready queues (SJF/Priority/RR),
// cross-level preemption, aging/promotion, and the dispatch protocol that
// safely retires a finishing thread. It is grounded on
// original_source/code/threads/scheduler.cc, generalized to take its
// platform collaborators (clock, logger, machine) as constructor
// arguments instead of reaching through a process-wide kernel handle
// (Design Notes, "no global kernel handle").
package scheduler

import (
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/clock"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/logging"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/machine"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/queue"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/thread"
)

// Config holds the scheduler's tunable constants. Defaults match the
// NachOS source (AGING_PERIOD = 1500, AGING_FACTOR = 10).
type Config struct {
	AgingPeriod int64
	AgingFactor int
}

// DefaultConfig returns the NachOS-faithful aging constants.
func DefaultConfig() Config {
	return Config{AgingPeriod: 1500, AgingFactor: 10}
}

// Scheduler owns the three ready queues, the deferred-destruction slot,
// and the platform collaborators the dispatch protocol needs. ReadyToRun,
// FindNextToRun, ElevateThreads, Run and CheckToBeDestroyed are the
// scheduler entry points per §5: each requires the caller to already hold
// interrupts disabled, asserted via clock.AssertInterruptsOff. Current,
// Bootstrap and QueueName do not check the interrupt level.
type Scheduler struct {
	l1 *queue.SJFQueue
	l2 *queue.PriorityQueue
	l3 *queue.RRQueue

	clock   *clock.Clock
	logger  *logging.Logger
	machine machine.Machine
	cfg     Config

	current       *thread.Thread
	toBeDestroyed *thread.Thread
}

// New constructs a Scheduler with its collaborators injected explicitly —
// no scheduling entry point below reaches through a global.
func New(clk *clock.Clock, log *logging.Logger, m machine.Machine, cfg Config) *Scheduler {
	s := &Scheduler{clock: clk, logger: log, machine: m, cfg: cfg}
	s.l1 = queue.NewSJFQueue(clk, log, func() *thread.Thread { return s.current })
	s.l2 = queue.NewPriorityQueue(clk, log)
	s.l3 = queue.NewRRQueue(clk, log)
	return s
}

// Current returns the thread presently occupying the CPU, or nil before
// the first dispatch.
func (s *Scheduler) Current() *thread.Thread {
	return s.current
}

// Bootstrap installs t as the current thread without going through the
// dispatch protocol. Used exactly once, to seed the very first running
// thread before any Run call — there is no "old" thread to save state
// for or switch away from.
func (s *Scheduler) Bootstrap(t *thread.Thread) {
	t.Status = thread.Running
	s.current = t
}

// queueFor returns the JobQueue owned by this scheduler for level lv.
func (s *Scheduler) queueFor(lv queue.Level) queue.JobQueue {
	switch lv {
	case queue.L1:
		return s.l1
	case queue.L2:
		return s.l2
	default:
		return s.l3
	}
}

// QueueName returns the log-facing name of q, asserting that q is one of
// this scheduler's own three queues (SPEC_FULL.md §7).
func (s *Scheduler) QueueName(q queue.JobQueue) string {
	switch q {
	case queue.JobQueue(s.l1), queue.JobQueue(s.l2), queue.JobQueue(s.l3):
		return q.Name()
	default:
		panic("scheduler: QueueName invoked with a queue not owned by this scheduler")
	}
}

// ReadyToRun files thread onto the ready queue matching its priority
// level (§4.3). Idempotent: a thread already present in that queue is
// removed and re-appended at the tail rather than duplicated.
func (s *Scheduler) ReadyToRun(t *thread.Thread) {
	s.clock.AssertInterruptsOff()

	t.Status = thread.Ready
	q := s.queueFor(queue.Classify(t.Priority))
	if q.Contains(t) {
		q.Remove(t)
	}
	q.Push(t)
}

// FindNextToRun implements the cross-level preemption rule of §4.4: L1
// may always try to preempt (subject to its own guard); a running L1 or
// L2 thread blocks L2 selection; L3 is the fallback and may always
// preempt another L3.
func (s *Scheduler) FindNextToRun() (*thread.Thread, bool) {
	s.clock.AssertInterruptsOff()

	if t, ok := s.l1.RemoveBest(); ok {
		return t, true
	}

	if s.current != nil && queue.Classify(s.current.Priority) >= queue.L2 && s.current.Status == thread.Running {
		return nil, false
	}

	if t, ok := s.l2.RemoveBest(); ok {
		return t, true
	}

	if t, ok := s.l3.RemoveBest(); ok {
		return t, true
	}

	return nil, false
}

// ElevateThreads applies the aging rule to every ready thread, walking
// L1 then L2 then L3 (§5 Ordering guarantees). Each queue is snapshotted
// before it is walked (queue.JobQueue.ForEach does this), so a thread
// promoted into a queue already walked this pass is not re-visited —
// which is automatic here because promotions only ever move a thread
// into a level that is walked earlier in this same L1,L2,L3 order.
func (s *Scheduler) ElevateThreads() {
	s.clock.AssertInterruptsOff()

	s.l1.ForEach(s.age)
	s.l2.ForEach(s.age)
	s.l3.ForEach(s.age)
}

// age implements the per-thread aging rule of §4.5.
func (s *Scheduler) age(t *thread.Thread) {
	now := s.clock.TotalTicks()
	if now-t.PriorityUpdatedTick < s.cfg.AgingPeriod {
		return
	}

	t.PriorityUpdatedTick = now
	oldPriority := t.Priority
	newPriority := oldPriority + s.cfg.AgingFactor
	if newPriority > queue.MaxPriority {
		newPriority = queue.MaxPriority
	}
	if newPriority == oldPriority {
		return
	}

	oldLevel := queue.Classify(oldPriority)
	t.Priority = newPriority
	s.logger.PriorityChanged(now, t.ID, oldPriority, newPriority)

	newLevel := queue.Classify(newPriority)
	if newLevel != oldLevel {
		s.upgradeThreadLevel(t, oldLevel, newLevel)
	}
}

// upgradeThreadLevel moves t from the queue for oldLevel to the queue for
// newLevel. Only L3->L2 and L2->L1 promotions occur via aging; downward
// motion never happens here (§4.5).
func (s *Scheduler) upgradeThreadLevel(t *thread.Thread, oldLevel, newLevel queue.Level) {
	s.queueFor(oldLevel).Remove(t)
	s.queueFor(newLevel).Push(t)
}

// Run dispatches the CPU to next, implementing the protocol of §4.6. If
// finishing is true, the outgoing thread is handed to the deferred-
// destroy slot and reclaimed on the next CheckToBeDestroyed call — never
// on its own stack.
func (s *Scheduler) Run(next *thread.Thread, finishing bool) {
	s.clock.AssertInterruptsOff()

	old := s.current
	if old == nil {
		panic("scheduler: Run called with no current thread; call Bootstrap first")
	}

	if finishing {
		if s.toBeDestroyed != nil {
			panic("scheduler: Run(finishing=true) called while a thread is still awaiting destruction")
		}
		s.toBeDestroyed = old
	}

	if old.AddressSpace != nil {
		old.SaveUserState()
		old.AddressSpace.SaveState()
	}
	old.CheckOverflow()

	s.current = next
	next.Status = thread.Running

	executed := old.ConsumeAccumTick()
	s.logger.Dispatched(s.clock.TotalTicks(), next.ID, old.ID, executed)
	s.logger.Switching(old.Name, next.Name)

	s.machine.Switch(old, next)

	// Control resumes here only once some later Run names old as next.
	s.clock.AssertInterruptsOff()

	s.CheckToBeDestroyed()

	if old.AddressSpace != nil {
		old.RestoreUserState()
		old.AddressSpace.RestoreState()
	}
}

// CheckToBeDestroyed reclaims the outgoing thread handed off by a
// finishing Run call, if any. It must only ever be invoked from a stack
// other than the one being destroyed; the dispatch protocol in Run
// guarantees this by calling it only after switching onto the incoming
// thread (§4.6 step 8).
func (s *Scheduler) CheckToBeDestroyed() {
	s.clock.AssertInterruptsOff()

	if s.toBeDestroyed == nil {
		return
	}
	t := s.toBeDestroyed
	s.toBeDestroyed = nil
	t.Status = thread.Finished
	if t.OnDestroy != nil {
		t.OnDestroy()
	}
}
