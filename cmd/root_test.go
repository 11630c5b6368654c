package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCommandWithScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basic.sched")
	script := `
schedule_policy = FCFS
threads_count = 1
spawn_process("A", 1, 0, [("Cpu", 2)])
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))

	rootCmd.SetArgs([]string{"run", "--script", path, "--log", "error"})
	require.NoError(t, rootCmd.Execute())
}

func TestRunCommandWithWorkload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	scenario := `
policy: FCFS
threads_count: 1
processes:
  - name: A
    pid: 1
    arrival: 0
    events:
      - { kind: Cpu, duration: 2, usage: 0.5 }
`
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o644))

	rootCmd.SetArgs([]string{"run", "--workload", path, "--log", "error", "--script", ""})
	require.NoError(t, rootCmd.Execute())
}
