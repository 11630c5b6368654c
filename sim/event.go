// Defines the Event model: the atomic units of work a process consumes.
// Each event is either a CPU burst or an I/O burst with an integer duration.

package sim

import "fmt"

// EventKind discriminates CPU bursts from I/O bursts.
// Exhaustive: every switch over EventKind must handle both cases.
type EventKind uint8

const (
	EventCPU EventKind = iota
	EventIO
)

func (k EventKind) String() string {
	switch k {
	case EventCPU:
		return "Cpu"
	case EventIO:
		return "Io"
	default:
		panic(fmt.Sprintf("unhandled event kind %d", uint8(k)))
	}
}

// EventKindFromString parses the canonical spellings "Cpu" and "Io".
// Matching is case-sensitive.
func EventKindFromString(s string) (EventKind, error) {
	switch s {
	case "Cpu":
		return EventCPU, nil
	case "Io":
		return EventIO, nil
	default:
		return 0, fmt.Errorf("unknown event kind %q (expected \"Cpu\" or \"Io\")", s)
	}
}

// MinResourceUsage is the floor applied to an event's resource usage at
// construction time.
const MinResourceUsage = 0.01

// Event is one unit of work. Duration is decremented once per tick while the
// event sits at the front of its process's event queue; it stays strictly
// positive until the tick it completes.
type Event struct {
	Kind          EventKind
	Duration      uint64
	ResourceUsage float64
}

// NewEvent builds an Event, enforcing Duration >= 1 and
// ResourceUsage >= MinResourceUsage.
func NewEvent(kind EventKind, duration uint64, usage float64) Event {
	if duration == 0 {
		duration = 1
	}
	if usage < MinResourceUsage {
		usage = MinResourceUsage
	}
	return Event{Kind: kind, Duration: duration, ResourceUsage: usage}
}

func (e Event) String() string {
	return fmt.Sprintf("Event { kind = %s, duration = %d, usage = %d%% }",
		e.Kind, e.Duration, uint64(e.ResourceUsage*100))
}
