// The policy library: FCFS and Round-Robin scheduling policies, the named
// policy wrapper, and string-based policy resolution.

package sim

import (
	"fmt"
)

// DefaultQuantum is the Round-Robin time slice used when none is given.
const DefaultQuantum = 5

// SchedulePolicy decides which ready processes get a core. Apply is invoked
// once per core per Step, after aging and before the engine's fallback
// dispatch. A policy may promote a process from a ready queue to an idle
// core, and may mutate that process's front CPU event.
type SchedulePolicy interface {
	Apply(s *Scheduler)
}

// PolicyKind tags the built-in policies.
// Exhaustive: every switch over PolicyKind must handle both cases.
type PolicyKind uint8

const (
	PolicyFirstComeFirstServed PolicyKind = iota
	PolicyRoundRobin
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyFirstComeFirstServed:
		return "First Come First Served"
	case PolicyRoundRobin:
		return "Round Robin"
	default:
		panic(fmt.Sprintf("unhandled policy kind %d", uint8(k)))
	}
}

// FCFSPolicy promotes the head of each idle core's ready queue. The promoted
// CPU event is never split, so it holds the core until it completes.
type FCFSPolicy struct{}

func (FCFSPolicy) Apply(s *Scheduler) {
	for t := 0; t < s.ThreadsCount; t++ {
		if s.Running[t] != nil || s.Ready[t].Len() == 0 {
			continue
		}
		s.Running[t] = s.Ready[t].Dequeue()
	}
}

// RoundRobinPolicy promotes like FCFS but caps each stint at Quantum ticks.
// When the promoted process's CPU event exceeds the quantum, the event is
// split: a quantum-sized slice is pushed to the front of the event queue and
// the remainder stays behind it. The engine pops the slice like any other
// CPU event, which naturally re-queues the process at the tail of ready.
type RoundRobinPolicy struct {
	Quantum uint64
}

func (rr RoundRobinPolicy) Apply(s *Scheduler) {
	for t := 0; t < s.ThreadsCount; t++ {
		if s.Running[t] != nil || s.Ready[t].Len() == 0 {
			continue
		}

		p := s.Ready[t].Dequeue()
		s.Running[t] = p

		ev := p.FrontEvent()
		if ev == nil || ev.Kind != EventCPU {
			panic("sim: ready process must hold a CPU event")
		}
		if ev.Duration > rr.Quantum {
			ev.Duration -= rr.Quantum
			p.PushFrontEvent(NewEvent(EventCPU, rr.Quantum, ev.ResourceUsage))
		}
	}
}

// NamedPolicy pairs a policy with its kind tag and display name.
type NamedPolicy struct {
	name   string
	kind   PolicyKind
	policy SchedulePolicy
}

func (n NamedPolicy) Apply(s *Scheduler) { n.policy.Apply(s) }
func (n NamedPolicy) Name() string       { return n.name }
func (n NamedPolicy) Kind() PolicyKind   { return n.kind }

// NewNamedPolicy constructs the built-in policy for a kind, with the default
// quantum for Round-Robin.
func NewNamedPolicy(kind PolicyKind) NamedPolicy {
	return NewNamedPolicyQuantum(kind, DefaultQuantum)
}

// NewNamedPolicyQuantum is NewNamedPolicy with an explicit Round-Robin
// quantum. The quantum is ignored for FCFS.
func NewNamedPolicyQuantum(kind PolicyKind, quantum uint64) NamedPolicy {
	switch kind {
	case PolicyFirstComeFirstServed:
		return NamedPolicy{name: kind.String(), kind: kind, policy: FCFSPolicy{}}
	case PolicyRoundRobin:
		return NamedPolicy{name: kind.String(), kind: kind, policy: RoundRobinPolicy{Quantum: quantum}}
	default:
		panic(fmt.Sprintf("unhandled policy kind %d", uint8(kind)))
	}
}

// policyAliases maps every accepted spelling to its kind.
var policyAliases = map[string]PolicyKind{
	"FCFS":                 PolicyFirstComeFirstServed,
	"FIFO":                 PolicyFirstComeFirstServed,
	"FirstComeFirstServed": PolicyFirstComeFirstServed,
	"FirstInFirstOut":      PolicyFirstComeFirstServed,
	"RR":                   PolicyRoundRobin,
	"RoundRobin":           PolicyRoundRobin,
}

// TryPolicyFromString resolves a policy alias. Unknown strings yield an
// error; callers leave the active policy unchanged in that case.
func TryPolicyFromString(s string) (PolicyKind, error) {
	kind, ok := policyAliases[s]
	if !ok {
		return 0, fmt.Errorf("failed to deduce schedule policy from %q", s)
	}
	return kind, nil
}
