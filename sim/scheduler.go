// The multi-core scheduler engine: per-core queues, the discrete-time
// stepper, live metrics, and snapshot/restart.

package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// MaxThreads is the upper bound on virtual cores. ThreadsCount selects how
// many are actually used.
const MaxThreads = 9

// Scheduler is the core object that holds simulation time and all process
// queues. It is exclusively owned by the driver: every mutation happens
// through EmplaceProcess, SwitchPolicy, Step, and Restart on a single
// goroutine. Observers sample state between Step calls.
//
// A process is reachable from exactly one of Running[t], the three per-core
// queues, or Finished at any point between ticks.
type Scheduler struct {
	Running      [MaxThreads]*Process
	ArrivalQueue [MaxThreads]ProcessQueue // processes not yet past their arrival tick
	Ready        [MaxThreads]ProcessQueue // front event is CPU
	Waiting      [MaxThreads]ProcessQueue // front event is I/O, aged in place
	Finished     []*Process               // global, in completion order

	Policy   NamedPolicy
	Timer    uint64
	CPUUsage [MaxThreads]float64

	// Configuration constants, set by the front-ends before stepping.
	MaxProcesses           uint64
	MaxEventsPerProcess    uint64
	MaxSingleEventDuration uint64
	MaxArrivalTime         uint64
	ThreadsCount           int

	// NextThread is the round-robin spawn pointer balancing processes
	// across cores.
	NextThread int

	Throughput            float64
	PreviousFinishedCount int

	backup      [MaxThreads][]*Process
	validBackup bool
}

// NewScheduler creates a scheduler with every core in use and no limits on
// process or event counts.
func NewScheduler(policy NamedPolicy) *Scheduler {
	return &Scheduler{
		Policy:                 policy,
		MaxProcesses:           math.MaxUint64,
		MaxEventsPerProcess:    math.MaxUint64,
		MaxSingleEventDuration: math.MaxUint64,
		MaxArrivalTime:         math.MaxUint64,
		ThreadsCount:           MaxThreads,
	}
}

// SwitchPolicy replaces the active scheduling policy. Takes effect on the
// next Step.
func (s *Scheduler) SwitchPolicy(policy NamedPolicy) {
	s.Policy = policy
}

// EmplaceProcess spawns a process onto the arrival queue of the next core in
// round-robin order. Before the first Step, a deep copy is also captured for
// Restart. No validity checks happen here: duplicate pids and empty event
// lists are caught at dispatch time.
func (s *Scheduler) EmplaceProcess(name string, pid uint64, arrival uint64, events []Event) *Process {
	p := NewProcess(name, pid, arrival, events)
	s.ArrivalQueue[s.NextThread].Enqueue(p)
	if !s.validBackup {
		s.backup[s.NextThread] = append(s.backup[s.NextThread], p.Clone())
	}
	s.NextThread = (s.NextThread + 1) % s.ThreadsCount
	return p
}

// Complete reports whether every core is idle and every queue is empty.
func (s *Scheduler) Complete() bool {
	for t := 0; t < s.ThreadsCount; t++ {
		if s.Running[t] != nil {
			return false
		}
		if s.ArrivalQueue[t].Len() > 0 || s.Ready[t].Len() > 0 || s.Waiting[t].Len() > 0 {
			return false
		}
	}
	return true
}

// HasValidBackup reports whether Restart may be called.
func (s *Scheduler) HasValidBackup() bool {
	return s.validBackup
}

// Restart rewinds the simulation to its initial state, repopulating the
// arrival queues from deep copies of the originally spawned processes.
// Calling Restart before the first Step is a programmer error.
func (s *Scheduler) Restart() {
	if !s.validBackup {
		panic("sim: Restart called before the first Step")
	}

	s.Timer = 0
	s.NextThread = 0
	s.Throughput = 0
	s.PreviousFinishedCount = 0
	s.Finished = nil

	for t := range s.backup {
		s.Running[t] = nil
		s.CPUUsage[t] = 0
		s.ArrivalQueue[t].clear()
		s.Ready[t].clear()
		s.Waiting[t].clear()
		for _, p := range s.backup[t] {
			s.ArrivalQueue[t].Enqueue(p.Clone())
		}
	}
}

// Step advances the simulation by one tick. Cores are processed in strict
// ascending index order; within a core the order is fixed: admit arrivals,
// age I/O, age the running event, invoke the policy, fallback dispatch,
// update usage and throughput. The timer increments once all cores are done.
func (s *Scheduler) Step() {
	s.validBackup = true

	for t := 0; t < s.ThreadsCount; t++ {
		s.admitArrivals(t)
		s.ageWaiting(t)
		s.ageRunning(t)

		if s.Running[t] == nil {
			s.Policy.Apply(s)
		}
		if s.Running[t] == nil && s.Ready[t].Len() > 0 {
			s.Running[t] = s.Ready[t].Dequeue()
		}

		if p := s.Running[t]; p != nil {
			if ev := p.FrontEvent(); ev != nil {
				s.CPUUsage[t] = ev.ResourceUsage
			}
		}

		if s.Complete() {
			for i := range s.CPUUsage {
				s.CPUUsage[i] = 0
			}
		}

		if s.Timer != 0 {
			s.Throughput = float64(len(s.Finished)) / float64(s.Timer)
		} else {
			s.Throughput = 0
		}
		s.PreviousFinishedCount = len(s.Finished)
	}

	s.Timer++
}

// AverageWaitingTime is the mean of (StartTime - Arrival) over finished
// processes that ever started, integer-divided by the finished count.
func (s *Scheduler) AverageWaitingTime() uint64 {
	if len(s.Finished) == 0 {
		return 0
	}
	var total uint64
	for _, p := range s.Finished {
		if !p.StartSet {
			continue
		}
		total += p.StartTime - p.Arrival
	}
	return total / uint64(len(s.Finished))
}

// AverageTurnaroundTime is the mean of (FinishTime - Arrival) over finished
// processes, integer-divided by the finished count.
func (s *Scheduler) AverageTurnaroundTime() uint64 {
	if len(s.Finished) == 0 {
		return 0
	}
	var total uint64
	for _, p := range s.Finished {
		if !p.FinishSet {
			continue
		}
		total += p.FinishTime - p.Arrival
	}
	return total / uint64(len(s.Finished))
}

// AverageCPUUsage is the mean resource usage across the cores in use.
func (s *Scheduler) AverageCPUUsage() float64 {
	var total float64
	for t := 0; t < s.ThreadsCount; t++ {
		total += s.CPUUsage[t]
	}
	return total / float64(s.ThreadsCount)
}

// admitArrivals scans core t's arrival queue for processes whose arrival tick
// is now. Valid processes are dispatched by their first event's kind; a
// duplicate pid or an empty event list drops the process with a warning.
// Insertion order is preserved among simultaneous arrivals.
func (s *Scheduler) admitArrivals(t int) {
	arrivals := &s.ArrivalQueue[t]
	for i := 0; i < arrivals.Len(); {
		p := arrivals.Items()[i]
		if p.Arrival != s.Timer {
			i++
			continue
		}

		if !s.pidIsUnique(t, p.PID) {
			logrus.Warnf("process %s with pid %d is already in use, dropping", p.Name, p.PID)
			arrivals.removeAt(i)
			continue
		}
		if len(p.Events) == 0 {
			logrus.Warnf("process %s with pid %d should have at least one event, dropping", p.Name, p.PID)
			arrivals.removeAt(i)
			continue
		}

		arrivals.removeAt(i)
		s.dispatchByFirstEvent(t, p)
	}
}

// dispatchByFirstEvent routes a process to ready or waiting based on its
// current event. The first CPU dispatch stamps StartTime.
func (s *Scheduler) dispatchByFirstEvent(t int, p *Process) {
	ev := p.FrontEvent()
	if ev == nil {
		panic("sim: dispatch of a process with no events")
	}
	switch ev.Kind {
	case EventCPU:
		p.markStarted(s.Timer)
		s.Ready[t].Enqueue(p)
	case EventIO:
		s.Waiting[t].Enqueue(p)
	default:
		panic("unhandled event kind")
	}
}

// ageWaiting decrements the front I/O event of every process waiting on core
// t. Completed events are popped; the process is then re-dispatched by its
// next event, or finished when no events remain. A process whose next event
// is again I/O re-enters the waiting queue at the tail and is not decremented
// again this tick.
func (s *Scheduler) ageWaiting(t int) {
	waits := &s.Waiting[t]
	var toDispatch []*Process

	for i := 0; i < waits.Len(); {
		p := waits.Items()[i]
		ev := p.FrontEvent()
		if ev == nil || ev.Kind != EventIO || ev.Duration == 0 {
			panic("sim: waiting process must hold a pending I/O event")
		}

		ev.Duration--
		if ev.Duration > 0 {
			i++
			continue
		}

		p.PopEvent()
		if len(p.Events) > 0 {
			toDispatch = append(toDispatch, p)
		} else {
			p.markFinished(s.Timer)
			s.Finished = append(s.Finished, p)
		}
		waits.removeAt(i)
	}

	for _, p := range toDispatch {
		s.dispatchByFirstEvent(t, p)
	}
}

// ageRunning decrements the CPU event executing on core t. When the event
// completes the core is released and the process is re-dispatched or
// finished.
func (s *Scheduler) ageRunning(t int) {
	p := s.Running[t]
	if p == nil {
		return
	}

	ev := p.FrontEvent()
	if ev == nil || ev.Kind != EventCPU || ev.Duration == 0 {
		panic("sim: running process must hold a pending CPU event")
	}

	ev.Duration--
	if ev.Duration > 0 {
		return
	}

	p.PopEvent()
	if len(p.Events) > 0 {
		s.dispatchByFirstEvent(t, p)
	} else {
		p.markFinished(s.Timer)
		s.Finished = append(s.Finished, p)
	}
	s.Running[t] = nil
}

// pidIsUnique reports whether pid collides with any live process on core t.
func (s *Scheduler) pidIsUnique(t int, pid uint64) bool {
	if r := s.Running[t]; r != nil && r.PID == pid {
		return false
	}
	for _, p := range s.Ready[t].Items() {
		if p.PID == pid {
			return false
		}
	}
	for _, p := range s.Waiting[t].Items() {
		if p.PID == pid {
			return false
		}
	}
	return true
}
