package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sched-sim/sched-sim/sim"
)

const validScenario = `
policy: RoundRobin
quantum: 2
threads_count: 2
max_arrival_time: 50
processes:
  - name: editor
    pid: 1
    arrival: 0
    events:
      - { kind: Cpu, duration: 3, usage: 0.4 }
      - { kind: Io, duration: 2, usage: 0.1 }
  - name: compiler
    pid: 2
    arrival: 1
    events:
      - { kind: Cpu, duration: 7 }
`

func TestParseValidScenario(t *testing.T) {
	spec, err := Parse([]byte(validScenario))
	require.NoError(t, err)

	assert.Equal(t, "RoundRobin", spec.Policy)
	assert.Equal(t, uint64(2), spec.Quantum)
	assert.Equal(t, 2, spec.ThreadsCount)
	assert.Equal(t, uint64(50), spec.MaxArrivalTime)
	require.Len(t, spec.Processes, 2)
	assert.Equal(t, "editor", spec.Processes[0].Name)
	require.Len(t, spec.Processes[0].Events, 2)
	assert.Equal(t, "Io", spec.Processes[0].Events[1].Kind)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Spec)
		want   string
	}{
		{"unknown policy", func(s *Spec) { s.Policy = "Lottery" }, "schedule policy"},
		{"threads out of range", func(s *Spec) { s.ThreadsCount = 12 }, "threads_count"},
		{"empty events", func(s *Spec) { s.Processes[0].Events = nil }, "at least one event"},
		{"bad kind", func(s *Spec) { s.Processes[0].Events[0].Kind = "cpu" }, "unknown event kind"},
		{"zero duration", func(s *Spec) { s.Processes[0].Events[0].Duration = 0 }, "duration"},
		{"usage above one", func(s *Spec) { s.Processes[0].Events[0].Usage = 1.5 }, "usage"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := Parse([]byte(validScenario))
			require.NoError(t, err)
			tc.mutate(spec)
			err = spec.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("processes: ["))
	require.Error(t, err)
}

func TestApplyConfiguresAndSpawns(t *testing.T) {
	spec, err := Parse([]byte(validScenario))
	require.NoError(t, err)

	sched := sim.NewScheduler(sim.NewNamedPolicy(sim.PolicyFirstComeFirstServed))
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(1))
	require.NoError(t, spec.Apply(sched, rng))

	assert.Equal(t, sim.PolicyRoundRobin, sched.Policy.Kind())
	assert.Equal(t, 2, sched.ThreadsCount)
	assert.Equal(t, uint64(50), sched.MaxArrivalTime)

	require.Equal(t, 1, sched.ArrivalQueue[0].Len())
	require.Equal(t, 1, sched.ArrivalQueue[1].Len())

	editor := sched.ArrivalQueue[0].Peek()
	assert.Equal(t, uint64(1), editor.PID)
	assert.Equal(t, 0.4, editor.Events[0].ResourceUsage)

	compiler := sched.ArrivalQueue[1].Peek()
	assert.Equal(t, uint64(2), compiler.PID)
	// No explicit usage: drawn at random, still within (0, 1].
	assert.GreaterOrEqual(t, compiler.Events[0].ResourceUsage, sim.MinResourceUsage)
	assert.LessOrEqual(t, compiler.Events[0].ResourceUsage, 1.0)
}

func TestApplyRunsToCompletion(t *testing.T) {
	spec, err := Parse([]byte(validScenario))
	require.NoError(t, err)

	sched := sim.NewScheduler(sim.NewNamedPolicy(sim.PolicyFirstComeFirstServed))
	require.NoError(t, spec.Apply(sched, sim.NewPartitionedRNG(sim.NewSimulationKey(1))))

	for i := 0; i < 100 && !sched.Complete(); i++ {
		sched.Step()
	}
	require.True(t, sched.Complete())
	assert.Len(t, sched.Finished, 2)
}
