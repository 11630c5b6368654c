// Tracks simulation-wide metrics for final reporting.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Metrics is a point-in-time summary of a scheduler, taken between ticks.
type Metrics struct {
	Timer                 uint64
	FinishedCount         int
	Throughput            float64
	AverageWaitingTime    uint64
	AverageTurnaroundTime uint64
	AverageCPUUsage       float64

	// Per-finished-process distributions, in completion order.
	WaitingTimes    []float64
	TurnaroundTimes []float64
}

// Snapshot captures the scheduler's current metrics.
func (s *Scheduler) Snapshot() *Metrics {
	m := &Metrics{
		Timer:                 s.Timer,
		FinishedCount:         len(s.Finished),
		Throughput:            s.Throughput,
		AverageWaitingTime:    s.AverageWaitingTime(),
		AverageTurnaroundTime: s.AverageTurnaroundTime(),
		AverageCPUUsage:       s.AverageCPUUsage(),
	}
	for _, p := range s.Finished {
		m.WaitingTimes = append(m.WaitingTimes, float64(p.WaitingTime()))
		m.TurnaroundTimes = append(m.TurnaroundTimes, float64(p.TurnaroundTime()))
	}
	return m
}

// quantile returns the p-th quantile of xs without mutating the input.
func quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Ticks                : %d\n", m.Timer)
	fmt.Printf("Finished Processes   : %d\n", m.FinishedCount)
	if m.FinishedCount > 0 {
		fmt.Printf("Throughput           : %.4f processes/tick\n", m.Throughput)
		fmt.Printf("Average Waiting      : %d ticks\n", m.AverageWaitingTime)
		fmt.Printf("Average Turnaround   : %d ticks\n", m.AverageTurnaroundTime)
		fmt.Printf("Waiting mean/p50/p95 : %.2f / %.2f / %.2f ticks\n",
			stat.Mean(m.WaitingTimes, nil), quantile(m.WaitingTimes, 0.5), quantile(m.WaitingTimes, 0.95))
		fmt.Printf("Turnaround mean/p50/p95 : %.2f / %.2f / %.2f ticks\n",
			stat.Mean(m.TurnaroundTimes, nil), quantile(m.TurnaroundTimes, 0.5), quantile(m.TurnaroundTimes, 0.95))
	}
	fmt.Printf("Average CPU Usage    : %.2f%%\n", m.AverageCPUUsage*100)
}
