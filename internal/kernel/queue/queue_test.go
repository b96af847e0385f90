package queue

import (
	"io"
	"log/slog"
	"testing"

	"github.com/waltsai2483/NachOS-MPX/internal/kernel/clock"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/logging"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/thread"
)

func quietLogger() *logging.Logger {
	return logging.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRRQueueIsStrictFIFO(t *testing.T) {
	clk := clock.New()
	q := NewRRQueue(clk, quietLogger())

	a := thread.New(1, "a", 10, 0, 0)
	b := thread.New(2, "b", 10, 0, 0)
	c := thread.New(3, "c", 10, 0, 0)
	q.Push(a)
	q.Push(b)
	q.Push(c)

	for _, want := range []*thread.Thread{a, b, c} {
		got, ok := q.RemoveBest()
		if !ok || got != want {
			t.Fatalf("RemoveBest() = %v, %v, want %v, true", got, ok, want)
		}
	}
	if _, ok := q.RemoveBest(); ok {
		t.Fatal("RemoveBest() on empty queue returned ok=true")
	}
}

func TestPriorityQueuePicksHighestPriorityTieBrokenByID(t *testing.T) {
	clk := clock.New()
	q := NewPriorityQueue(clk, quietLogger())

	x := thread.New(5, "x", 80, 0, 0)
	y := thread.New(6, "y", 80, 0, 0)
	z := thread.New(7, "z", 90, 0, 0)
	q.Push(x)
	q.Push(y)
	q.Push(z)

	for _, want := range []*thread.Thread{z, x, y} {
		got, ok := q.RemoveBest()
		if !ok || got != want {
			t.Fatalf("RemoveBest() = %v, want %v", got, want)
		}
	}
}

func TestSJFQueuePicksShortestBurstTieBrokenByID(t *testing.T) {
	clk := clock.New()
	q := NewSJFQueue(clk, quietLogger(), func() *thread.Thread { return nil })

	slow := thread.New(2, "slow", 120, 20, 0)
	fast := thread.New(1, "fast", 120, 5, 0)
	tied := thread.New(3, "tied", 120, 5, 0)
	q.Push(slow)
	q.Push(fast)
	q.Push(tied)

	got, ok := q.RemoveBest()
	if !ok || got != fast {
		t.Fatalf("RemoveBest() = %v, want fast (id=1, tie-break)", got)
	}
	got, ok = q.RemoveBest()
	if !ok || got != tied {
		t.Fatalf("RemoveBest() = %v, want tied", got)
	}
	got, ok = q.RemoveBest()
	if !ok || got != slow {
		t.Fatalf("RemoveBest() = %v, want slow", got)
	}
}

func TestSJFQueuePreemptionGuardKeepsRunningThread(t *testing.T) {
	clk := clock.New()

	running := thread.New(1, "running", 120, 5, 0)
	running.Status = thread.Running
	running.ApproxRemainingTick = 5

	q := NewSJFQueue(clk, quietLogger(), func() *thread.Thread { return running })

	candidate := thread.New(2, "candidate", 120, 10, 0)
	q.Push(candidate)

	if _, ok := q.RemoveBest(); ok {
		t.Fatal("RemoveBest() preempted a running thread with a strictly longer candidate")
	}
	if !q.Contains(candidate) {
		t.Fatal("candidate was removed from the queue despite the guard refusing to dispatch it")
	}

	// Shortening the candidate's remaining burst below the running
	// thread's own remaining time must let it win on the next call.
	candidate.ApproxBurstTick = 3
	got, ok := q.RemoveBest()
	if !ok || got != candidate {
		t.Fatalf("RemoveBest() = %v, %v, want candidate, true", got, ok)
	}
}

func TestSJFQueuePreemptionGuardTieBreaksByRunningThreadID(t *testing.T) {
	clk := clock.New()

	running := thread.New(5, "running", 120, 5, 0)
	running.Status = thread.Running
	running.ApproxRemainingTick = 5

	q := NewSJFQueue(clk, quietLogger(), func() *thread.Thread { return running })

	// Equal remaining/burst, candidate id greater than running id: guard
	// keeps the running thread (smaller id wins the tie).
	candidate := thread.New(9, "candidate", 120, 5, 0)
	q.Push(candidate)
	if _, ok := q.RemoveBest(); ok {
		t.Fatal("RemoveBest() preempted on an equal-burst tie against a smaller id")
	}

	// Same setup but the candidate now has the smaller id: it should win.
	q.Remove(candidate)
	lowerID := thread.New(1, "lower", 120, 5, 0)
	q.Push(lowerID)
	got, ok := q.RemoveBest()
	if !ok || got != lowerID {
		t.Fatalf("RemoveBest() = %v, %v, want lowerID, true", got, ok)
	}
}

func TestBaseRemoveAbsentThreadPanics(t *testing.T) {
	clk := clock.New()
	q := NewRRQueue(clk, quietLogger())
	stray := thread.New(1, "stray", 10, 0, 0)

	defer func() {
		if recover() == nil {
			t.Fatal("Remove on an absent thread did not panic")
		}
	}()
	q.Remove(stray)
}

func TestForEachSnapshotsBeforeMutation(t *testing.T) {
	clk := clock.New()
	q := NewRRQueue(clk, quietLogger())
	a := thread.New(1, "a", 10, 0, 0)
	b := thread.New(2, "b", 10, 0, 0)
	q.Push(a)
	q.Push(b)

	var seen []int
	q.ForEach(func(th *thread.Thread) {
		seen = append(seen, th.ID)
		if th == a {
			q.Remove(a)
			q.Push(thread.New(3, "c", 10, 0, 0))
		}
	})

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("ForEach visited %v, want [1 2] despite mid-iteration mutation", seen)
	}
}
