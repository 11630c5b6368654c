package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sched-sim/sched-sim/lang"
	"github.com/sched-sim/sched-sim/sim"
	"github.com/sched-sim/sched-sim/sim/workload"
)

var (
	// CLI flags
	script       string // Path to a DSL script seeding the simulation
	workloadPath string // Path to a YAML scenario (alternative to --script)
	logLevel     string // Log verbosity level
	seed         int64  // Seed for random process generation
	policyName   string // Initial schedule policy alias
	quantum      uint64 // Round-Robin quantum
	threads      int    // Virtual core count
	maxTicks     uint64 // Safety bound on the stepping loop
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sched-sim",
	Short: "Interactive simulator of an OS process scheduler",
}

// runCmd seeds a scheduler from a DSL script or a YAML scenario, steps it to
// completion, and prints the metrics summary.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scheduling simulation to completion",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if script == "" && workloadPath == "" {
			logrus.Fatalf("No simulation input: provide --script or --workload")
		}

		kind, err := sim.TryPolicyFromString(policyName)
		if err != nil {
			logrus.Fatalf("Invalid --policy: %v", err)
		}
		sched := sim.NewScheduler(sim.NewNamedPolicyQuantum(kind, quantum))
		if threads > 0 && threads <= sim.MaxThreads {
			sched.ThreadsCount = threads
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))

		if script != "" {
			source, err := os.ReadFile(script)
			if err != nil {
				logrus.Fatalf("Unable to read script %s: %v", script, err)
			}
			if err := lang.Eval(string(source), sched, rng); err != nil {
				logrus.Fatalf("Failed to evaluate %s: %v", script, err)
			}
		}
		if workloadPath != "" {
			spec, err := workload.Load(workloadPath)
			if err != nil {
				logrus.Fatalf("Unable to load workload %s: %v", workloadPath, err)
			}
			if err := spec.Apply(sched, rng); err != nil {
				logrus.Fatalf("Failed to apply workload %s: %v", workloadPath, err)
			}
		}

		logrus.Infof("Starting simulation with policy=%s, threads=%d", sched.Policy.Name(), sched.ThreadsCount)

		for !sched.Complete() && sched.Timer < maxTicks {
			sched.Step()
		}
		if !sched.Complete() {
			logrus.Warnf("Stopped after %d ticks with unfinished processes", sched.Timer)
		}

		sched.Snapshot().Print()
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&script, "script", "", "Path to a simulation DSL script")
	runCmd.Flags().StringVar(&workloadPath, "workload", "", "Path to a YAML scenario file")
	runCmd.Flags().StringVar(&logLevel, "log", "warning", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random process generation")
	runCmd.Flags().StringVar(&policyName, "policy", "FCFS", "Initial schedule policy (FCFS, FIFO, RR, RoundRobin, ...)")
	runCmd.Flags().Uint64Var(&quantum, "quantum", sim.DefaultQuantum, "Round-Robin quantum in ticks")
	runCmd.Flags().IntVar(&threads, "threads", 0, "Virtual core count (0 keeps the default)")
	runCmd.Flags().Uint64Var(&maxTicks, "max-ticks", 1_000_000, "Stop stepping after this many ticks")

	rootCmd.AddCommand(runCmd)
}
