// Package machine models the machine-dependent context-switch primitive
// consumed by the scheduler's dispatch protocol (SPEC_FULL.md §4.7). The
// real NachOS SWITCH is hand-written assembly that swaps callee-saved
// registers and the program counter; this teaching kernel has no such
// layer to drop into, so the default implementation is a cooperative
// goroutine park/resume, grounded on the channel-coordination pattern the
// teacher uses for lifecycle handoff (internal/channels/typing.Controller).
package machine

import (
	"sync"

	"github.com/waltsai2483/NachOS-MPX/internal/kernel/thread"
)

// Machine is the contract Scheduler.Run dispatches through. Switch must
// not return to its caller (the outgoing thread's own call stack) until
// the scheduler has selected that thread to run again.
type Machine interface {
	Switch(old, next *thread.Thread)
}

// SyncMachine is a trivial Machine for tests that exercise queue
// selection and aging but never need a real cross-goroutine handoff
// (nothing actually suspends; Switch returns immediately). It is not a
// faithful model of "control resumes later" and must not be used to test
// the deferred-destroy cross-stack guarantee (§4.6) — use GoroutineMachine
// for that.
type SyncMachine struct{}

func (SyncMachine) Switch(*thread.Thread, *thread.Thread) {}

// GoroutineMachine backs each Thread with a buffered resume channel, for
// callers that want a real cooperative handoff between goroutines rather
// than SyncMachine's instant no-op. A thread's own goroutine blocks
// inside Switch until some later Switch call names it as next again.
//
// This is a deliberate simplification of the real SWITCH primitive: Go
// has no manual stack/register control, so unlike NachOS (where resuming
// a thread re-enters the middle of its own frozen call to Run, using
// that call's own locals), resuming here just unblocks whatever Go
// statement follows the Switch call on that goroutine — there is no
// "other half" of a frozen call to jump into. Scheduler.Run therefore
// still runs CheckToBeDestroyed synchronously on the calling goroutine
// right after Switch returns, for every Machine implementation; that is
// sufficient in Go, since there is no manual deallocation for it to race
// against in the first place, only the documented ordering contract.
type GoroutineMachine struct {
	mu     sync.Mutex
	resume map[*thread.Thread]chan struct{}
}

// NewGoroutineMachine returns a ready-to-use GoroutineMachine.
func NewGoroutineMachine() *GoroutineMachine {
	return &GoroutineMachine{resume: make(map[*thread.Thread]chan struct{})}
}

// Switch signals next's goroutine to resume, then blocks the caller
// (running as old) until some future Switch call signals old in turn.
func (m *GoroutineMachine) Switch(old, next *thread.Thread) {
	m.mu.Lock()
	oldCh := m.channelLocked(old)
	nextCh := m.channelLocked(next)
	m.mu.Unlock()

	select {
	case nextCh <- struct{}{}:
	default:
		// next's channel already has a pending wakeup; nothing more to do.
	}

	<-oldCh
}

func (m *GoroutineMachine) channelLocked(t *thread.Thread) chan struct{} {
	ch, ok := m.resume[t]
	if !ok {
		ch = make(chan struct{}, 1)
		m.resume[t] = ch
	}
	return ch
}
