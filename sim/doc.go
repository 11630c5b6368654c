// Package sim provides the core discrete-time simulation engine for sched-sim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (arrival → ready → running → waiting → finished)
//   - event.go: CPU and I/O events consumed by processes, one tick at a time
//   - scheduler.go: The multi-core stepper, queue transitions, and metrics
//
// # Architecture
//
// The engine is single-threaded and cooperative: Step advances every virtual
// core by exactly one tick, in ascending core order. Parallelism across cores
// is simulated, never real. Observers read scheduler state between Step calls.
//
// # Key Interfaces
//
// The extension point is a single-method interface:
//   - SchedulePolicy: promote ready processes to a core, optionally mutating
//     their current CPU event (Round-Robin uses this for quantum splitting)
//
// Front-ends live in sibling packages: lang (the simulation DSL) and
// sim/workload (declarative YAML scenarios). Both seed a Scheduler and leave
// the stepping to the driver.
package sim
