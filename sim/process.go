// Defines the Process struct that models a simulated OS process.
// Tracks arrival time, the FIFO event queue, and start/finish timestamps.

package sim

import (
	"fmt"
	"strings"
)

// Process models a single process's lifecycle in the simulation. A process
// owns an ordered queue of events; only the front event is ever current. The
// scheduler moves the process between its queues based on that event's kind.
type Process struct {
	Name    string
	PID     uint64
	Arrival uint64  // tick at which the process leaves the arrival queue
	Events  []Event // FIFO, front at index 0

	// StartTime is set once, on the first dispatch to a ready queue for a
	// CPU event, and never overwritten. FinishTime is set once, on the tick
	// the last event completes.
	StartSet   bool
	StartTime  uint64
	FinishSet  bool
	FinishTime uint64
}

// NewProcess builds a process with the given event queue. The queue is
// expected to be non-empty at spawn time; the scheduler drops empty-queue
// processes at dispatch, not here.
func NewProcess(name string, pid uint64, arrival uint64, events []Event) *Process {
	return &Process{Name: name, PID: pid, Arrival: arrival, Events: events}
}

// FrontEvent returns a pointer to the current event, or nil if the queue is
// empty. The pointer stays valid until the next PopEvent/PushFrontEvent.
func (p *Process) FrontEvent() *Event {
	if len(p.Events) == 0 {
		return nil
	}
	return &p.Events[0]
}

// PopEvent removes the current event.
func (p *Process) PopEvent() {
	p.Events = p.Events[1:]
}

// PushFrontEvent inserts ev before the current event. Round-Robin uses this
// to place the quantum-sized slice ahead of the remainder.
func (p *Process) PushFrontEvent(ev Event) {
	p.Events = append([]Event{ev}, p.Events...)
}

// markStarted records the first dispatch to a ready queue. Later calls are
// no-ops: StartTime is never overwritten.
func (p *Process) markStarted(tick uint64) {
	if !p.StartSet {
		p.StartSet = true
		p.StartTime = tick
	}
}

// markFinished records completion of the last event. Later calls are no-ops.
func (p *Process) markFinished(tick uint64) {
	if !p.FinishSet {
		p.FinishSet = true
		p.FinishTime = tick
	}
}

// WaitingTime is the delay between arrival and first CPU dispatch.
// Zero until StartTime is set.
func (p *Process) WaitingTime() uint64 {
	if !p.StartSet {
		return 0
	}
	return p.StartTime - p.Arrival
}

// TurnaroundTime is the delay between arrival and completion.
// Zero until FinishTime is set.
func (p *Process) TurnaroundTime() uint64 {
	if !p.FinishSet {
		return 0
	}
	return p.FinishTime - p.Arrival
}

// Clone returns an independent deep copy. Used to capture the restart backup:
// the copy shares no event storage with the live process.
func (p *Process) Clone() *Process {
	events := make([]Event, len(p.Events))
	copy(events, p.Events)
	clone := *p
	clone.Events = events
	return &clone
}

// String returns a single-line human-readable rendering of the process,
// including derived waiting and turnaround times.
func (p *Process) String() string {
	var events strings.Builder
	events.WriteString("[ ")
	for _, ev := range p.Events {
		events.WriteString(ev.String())
		events.WriteString(", ")
	}
	events.WriteString("]")
	return fmt.Sprintf("Process { name: %s, pid: %d, arrival: %d, events: %s, waiting time: %d, turnaround time: %d }",
		p.Name, p.PID, p.Arrival, events.String(), p.WaitingTime(), p.TurnaroundTime())
}
