package workload

import (
	"context"
	"reflect"
	"testing"
)

func twoThreadSpec() *Spec {
	return &Spec{
		Threads: []ThreadSpec{
			{ID: 1, Name: "A", Priority: 10, ArrivalTick: 0, BurstTicks: 6},
			{ID: 2, Name: "B", Priority: 10, ArrivalTick: 0, BurstTicks: 4},
		},
		Quantum:     2,
		AgingPeriod: 1500,
		AgingFactor: 10,
	}
}

func TestDriverRunFinishesEveryThread(t *testing.T) {
	driver := NewDriver(twoThreadSpec(), nil)
	events, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	finishes := map[int]bool{}
	arrivals := map[int]bool{}
	for _, e := range events {
		switch e.Kind {
		case EventFinish:
			finishes[e.ThreadID] = true
		case EventArrival:
			arrivals[e.ThreadID] = true
		}
	}

	for _, th := range twoThreadSpec().Threads {
		if !arrivals[th.ID] {
			t.Errorf("thread %d never recorded an arrival event", th.ID)
		}
		if !finishes[th.ID] {
			t.Errorf("thread %d never recorded a finish event", th.ID)
		}
	}
}

func TestDriverRunIsDeterministic(t *testing.T) {
	first, err := NewDriver(twoThreadSpec(), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := NewDriver(twoThreadSpec(), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("replaying the same spec produced different traces:\n%v\n%v", first, second)
	}
}

func TestDriverRunEventsAreTickOrdered(t *testing.T) {
	driver := NewDriver(twoThreadSpec(), nil)
	events, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i := 1; i < len(events); i++ {
		if events[i].Tick < events[i-1].Tick {
			t.Fatalf("event %d (tick %d) precedes event %d (tick %d)", i, events[i].Tick, i-1, events[i-1].Tick)
		}
	}
}

func TestDriverRunRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	driver := NewDriver(twoThreadSpec(), nil)
	_, err := driver.Run(ctx)
	if err == nil {
		t.Fatal("Run() did not return an error for an already-cancelled context")
	}
}

func TestDriverRunIDIsStableAcrossCalls(t *testing.T) {
	driver := NewDriver(twoThreadSpec(), nil)
	id := driver.RunID()
	if _, err := driver.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if driver.RunID() != id {
		t.Fatal("RunID() changed after Run()")
	}
}
