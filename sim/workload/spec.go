// Package workload loads declarative YAML scenarios: an alternative
// front-end to the DSL for seeding a scheduler from a file.
package workload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sched-sim/sched-sim/sim"
)

// EventSpec is one (kind, duration) pair. Usage is optional; zero means
// "draw at random" like the DSL does.
type EventSpec struct {
	Kind     string  `yaml:"kind"`
	Duration uint64  `yaml:"duration"`
	Usage    float64 `yaml:"usage,omitempty"`
}

// ProcessSpec declares one process to spawn.
type ProcessSpec struct {
	Name    string      `yaml:"name"`
	PID     uint64      `yaml:"pid"`
	Arrival uint64      `yaml:"arrival"`
	Events  []EventSpec `yaml:"events"`
}

// Spec is a complete simulation scenario.
type Spec struct {
	Policy       string `yaml:"policy,omitempty"`  // alias, e.g. "FCFS" or "RoundRobin"
	Quantum      uint64 `yaml:"quantum,omitempty"` // Round-Robin only; 0 means default
	ThreadsCount int    `yaml:"threads_count,omitempty"`

	MaxProcesses           uint64 `yaml:"max_processes,omitempty"`
	MaxEventsPerProcess    uint64 `yaml:"max_events_per_process,omitempty"`
	MaxSingleEventDuration uint64 `yaml:"max_single_event_duration,omitempty"`
	MaxArrivalTime         uint64 `yaml:"max_arrival_time,omitempty"`

	Processes []ProcessSpec `yaml:"processes"`
}

// Parse unmarshals and validates a YAML scenario.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Load reads and parses a YAML scenario file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Validate checks the scenario before it touches a scheduler.
func (s *Spec) Validate() error {
	if s.Policy != "" {
		if _, err := sim.TryPolicyFromString(s.Policy); err != nil {
			return err
		}
	}
	if s.ThreadsCount < 0 || s.ThreadsCount > sim.MaxThreads {
		return fmt.Errorf("threads_count %d out of range [0, %d]", s.ThreadsCount, sim.MaxThreads)
	}
	for i, p := range s.Processes {
		if len(p.Events) == 0 {
			return fmt.Errorf("process %q (index %d): at least one event is required", p.Name, i)
		}
		for j, ev := range p.Events {
			if _, err := sim.EventKindFromString(ev.Kind); err != nil {
				return fmt.Errorf("process %q event %d: %w", p.Name, j, err)
			}
			if ev.Duration == 0 {
				return fmt.Errorf("process %q event %d: duration must be >= 1", p.Name, j)
			}
			if ev.Usage < 0 || ev.Usage > 1 {
				return fmt.Errorf("process %q event %d: usage %v out of range (0, 1]", p.Name, j, ev.Usage)
			}
		}
	}
	return nil
}

// Apply configures sched and spawns every declared process. Random resource
// usages for events without an explicit one are drawn from rng.
func (s *Spec) Apply(sched *sim.Scheduler, rng *sim.PartitionedRNG) error {
	if err := s.Validate(); err != nil {
		return err
	}
	usageRNG := rng.ForSubsystem(sim.SubsystemUsage)

	if s.ThreadsCount > 0 {
		sched.ThreadsCount = s.ThreadsCount
	}
	if s.MaxProcesses > 0 {
		sched.MaxProcesses = s.MaxProcesses
	}
	if s.MaxEventsPerProcess > 0 {
		sched.MaxEventsPerProcess = s.MaxEventsPerProcess
	}
	if s.MaxSingleEventDuration > 0 {
		sched.MaxSingleEventDuration = s.MaxSingleEventDuration
	}
	if s.MaxArrivalTime > 0 {
		sched.MaxArrivalTime = s.MaxArrivalTime
	}

	if s.Policy != "" {
		kind, err := sim.TryPolicyFromString(s.Policy)
		if err != nil {
			return err
		}
		quantum := s.Quantum
		if quantum == 0 {
			quantum = sim.DefaultQuantum
		}
		sched.SwitchPolicy(sim.NewNamedPolicyQuantum(kind, quantum))
	}

	for _, p := range s.Processes {
		events := make([]sim.Event, 0, len(p.Events))
		for _, ev := range p.Events {
			kind, err := sim.EventKindFromString(ev.Kind)
			if err != nil {
				return err
			}
			usage := ev.Usage
			if usage == 0 {
				usage = usageRNG.Float64()
			}
			events = append(events, sim.NewEvent(kind, ev.Duration, usage))
		}
		sched.EmplaceProcess(p.Name, p.PID, p.Arrival, events)
	}

	return nil
}
