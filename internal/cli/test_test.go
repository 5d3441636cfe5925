package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: cli-basic
description: "two appends keep insertion order"
steps:
  - append: a
  - append: b
assertions:
  - type: order
    items: [a, b]
  - type: distinct_keys
`

const failingScenario = `
name: cli-failing
description: "wrong expected order"
steps:
  - append: a
  - append: b
assertions:
  - type: order
    items: [b, a]
`

func writeScenarioDir(t *testing.T, scenarios map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range scenarios {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestTestCommand_Pass(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"basic.yaml": passingScenario})

	out, err := runCLI(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ cli-basic")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_FailureSetsExitCode(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{
		"basic.yaml":   passingScenario,
		"failing.yaml": failingScenario,
	})

	out, err := runCLI(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ cli-failing")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{
		"basic.yaml":   passingScenario,
		"failing.yaml": failingScenario,
	})

	out, err := runCLI(t, "test", dir, "--filter", "basic")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_GoldenRoundTrip(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"basic.yaml": passingScenario})

	// First run writes the golden file.
	_, err := runCLI(t, "test", dir, "--update")
	require.NoError(t, err)
	goldenPath := filepath.Join(dir, "golden", "basic.golden")
	require.FileExists(t, goldenPath)

	// Second run compares against it.
	out, err := runCLI(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ cli-basic")

	// A tampered golden file fails the comparison.
	require.NoError(t, os.WriteFile(goldenPath, []byte("{}"), 0o644))
	out, err = runCLI(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Golden file mismatch")
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, err := runCLI(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_EmptyDir(t *testing.T) {
	out, err := runCLI(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}
