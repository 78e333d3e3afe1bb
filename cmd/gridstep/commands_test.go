package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridstep/internal/core"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	t.Cleanup(resetFlags)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag variable to its default. cobra keeps parsed
// values across Execute calls.
func resetFlags() {
	configPath, overrides, logLevel = "", nil, "info"
	benchSteps, benchMinThreads, benchMaxThreads = 0, 1, 0
	benchFormat, benchTop, benchMetricsOut = "table", 3, ""
	runSteps, runPreview = 10, 8
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "--steps", "3", "--preview", "4", "--set", "length=64", "--set", "threads=3")
	require.NoError(t, err)
	assert.Contains(t, out, "generation 0 checksum=")
	assert.Contains(t, out, "generation 3 checksum=")
	assert.Contains(t, out, "3 steps in")
}

func TestParamsCommandReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("length: 77\n"), 0o644))

	out, err := execute(t, "params", "--config", path, "--set", "engine=pooled")
	require.NoError(t, err)
	assert.Contains(t, out, "value: \"77\"")
	assert.Contains(t, out, "value: pooled")
}

func TestBenchCommandYAML(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "bench.prom")
	out, err := execute(t, "bench", "--steps", "2", "--max-threads", "2", "--format", "yaml",
		"--metrics-out", metricsPath, "--set", "length=100")
	require.NoError(t, err)
	assert.Contains(t, out, "run_id:")
	assert.Contains(t, out, "threads: 2")
	assert.FileExists(t, metricsPath)
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	_, err := execute(t, "run", "--steps", "1", "--preview", "2", "--set", "length=16")
	require.NoError(t, err)
	resetFlags()

	out, err := execute(t, "run", "--set", "length=16")
	require.NoError(t, err)
	assert.Contains(t, out, "generation 10 checksum=", "default --steps applies again")
	assert.Contains(t, out, "10 steps in")
}

func TestInvalidOverrideIsConfigurationError(t *testing.T) {
	_, err := execute(t, "run", "--set", "threads=0")
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
}
