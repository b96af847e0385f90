package queue

import "fmt"

// Level identifies one of the scheduler's three priority bands. Higher
// values are more urgent: L1 is most urgent, L3 least.
type Level int

const (
	L3 Level = iota // [0, 50)   — round robin
	L2               // [50, 100) — static priority
	L1               // [100, 150) — shortest job first
)

func (l Level) String() string {
	switch l {
	case L1:
		return "L[1]"
	case L2:
		return "L[2]"
	case L3:
		return "L[3]"
	default:
		return fmt.Sprintf("L[?%d]", int(l))
	}
}

// priorityInterval partitions the priority space [0, 150) into the three
// levels, exactly as NachOS's Scheduler::priorityInterval does.
var priorityInterval = [4]int{0, 50, 100, 150}

// Classify returns the level containing priority p. p must be in
// [0, 150); any other value is a programming error (SPEC_FULL.md §4.1).
func Classify(p int) Level {
	if p < priorityInterval[0] || p >= priorityInterval[len(priorityInterval)-1] {
		panic(fmt.Sprintf("queue: priority %d out of range [%d, %d)", p, priorityInterval[0], priorityInterval[len(priorityInterval)-1]))
	}
	for i := 0; i < len(priorityInterval); i++ {
		if priorityInterval[i] > p {
			return Level(i - 1)
		}
	}
	panic(fmt.Sprintf("queue: priority %d did not match any interval", p))
}

// MaxPriority is the highest legal priority value (the upper bound of the
// priority space is exclusive, so the max attainable value is one less).
const MaxPriority = 149
