package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshot = "../app/testdata/lfpb.yaml"

func execute(t *testing.T, args ...string) string {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		schedulerCfgPath = ""
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

func TestFitReportsRejectedDoor(t *testing.T) {
	out := execute(t, "fit", snapshot, "--aircraft", "A380", "--hangar", "H1")
	assert.Contains(t, out, "rejects door D1")
	assert.Contains(t, out, "no suitable bay set")
}

func TestFitListsBaySets(t *testing.T) {
	out := execute(t, "fit", snapshot, "--aircraft", "A320", "--hangar", "H1")
	assert.Contains(t, out, "fits door D1")
	assert.Contains(t, out, "fits bays B1,B2")
}

func TestAnalyzeWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	out := execute(t, "analyze", snapshot, "--out", dir)
	assert.Contains(t, out, "LFPB")
	for _, name := range []string{"LFPB.report.json", "LFPB.export.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
}

func TestSchedulerConfigOverridesBaySetCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduler.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_bays_per_set: 1\n"), 0o600))

	out := execute(t, "fit", snapshot, "--aircraft", "A320", "--hangar", "H1", "--scheduler-config", path)
	assert.Contains(t, out, "fits door D1")
	assert.Contains(t, out, "no suitable bay set")
}

func TestSchedulerConfigRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduler.toml")
	require.NoError(t, os.WriteFile(path, []byte("horizon_days = 3\n"), 0o600))

	rootCmd.SetArgs([]string{"fit", snapshot, "--aircraft", "A320", "--scheduler-config", path})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		schedulerCfgPath = ""
		fitHangar = ""
	})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
