package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ordinal.db")

	out, err := runCLI(t, "init", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized database at "+db)
	assert.FileExists(t, db)

	// Idempotent.
	_, err = runCLI(t, "init", "--db", db)
	assert.NoError(t, err)
}

func TestAddMoveListFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ordinal.db")

	for _, args := range [][]string{
		{"add", "--db", db, "a"},
		{"add", "--db", db, "b"},
		{"add", "--db", db, "c", "--before", "b"},
	} {
		out, err := runCLI(t, args...)
		require.NoError(t, err, "args %v", args)
		assert.Contains(t, out, "Placed")
	}

	out, err := runCLI(t, "list", "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "a (1/1)")
	assert.Contains(t, lines[1], "c (3/2)")
	assert.Contains(t, lines[2], "b (2/1)")

	// Move a to the end.
	out, err = runCLI(t, "move", "--db", db, "a", "--after", "b")
	require.NoError(t, err)
	assert.Contains(t, out, "Placed a at 3/1")

	out, err = runCLI(t, "list", "--db", db)
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[0], "c (3/2)")
	assert.Contains(t, lines[2], "a (3/1)")
}

func TestAddCommand_JSONOutput(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ordinal.db")

	out, err := runCLI(t, "add", "--db", db, "a", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data: %v", resp.Data)
	assert.Equal(t, "a", data["item_id"])
}

func TestAddCommand_GeneratesID(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ordinal.db")

	out, err := runCLI(t, "add", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Placed")
	assert.Contains(t, out, "at 1/1")
}

func TestAddCommand_MissingAnchor(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ordinal.db")

	_, err := runCLI(t, "add", "--db", db, "x", "--after", "ghost")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "anchor item not found")
}

func TestMoveCommand_SelfAnchorIsNoOp(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ordinal.db")

	_, err := runCLI(t, "add", "--db", db, "a")
	require.NoError(t, err)

	out, err := runCLI(t, "move", "--db", db, "a", "--after", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to do")
}

func TestListCommand_CollectionsAreSeparate(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ordinal.db")

	_, err := runCLI(t, "add", "--db", db, "a")
	require.NoError(t, err)
	_, err = runCLI(t, "add", "--db", db, "-c", "groceries", "milk")
	require.NoError(t, err)

	out, err := runCLI(t, "list", "--db", db, "-c", "groceries")
	require.NoError(t, err)
	assert.Contains(t, out, "milk")
	assert.NotContains(t, out, "a (")

	out, err = runCLI(t, "list", "--db", db, "-c", "empty")
	require.NoError(t, err)
	assert.Contains(t, out, "is empty")
}

func TestCheckCommand_CleanCollection(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ordinal.db")

	_, err := runCLI(t, "add", "--db", db, "a")
	require.NoError(t, err)
	_, err = runCLI(t, "add", "--db", db, "b")
	require.NoError(t, err)

	out, err := runCLI(t, "check", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 2 items")
}

func TestRenormalizeCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ordinal.db")

	for _, id := range []string{"a", "b", "c"} {
		_, err := runCLI(t, "add", "--db", db, id)
		require.NoError(t, err)
	}

	out, err := runCLI(t, "renormalize", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Renormalized 3 items")

	out, err = runCLI(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "a (1/2)")
	assert.Contains(t, out, "b (3/2)")
	assert.Contains(t, out, "c (5/2)")
}

func TestConfigFileDrivesCeiling(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ordinal.db")
	cfgPath := filepath.Join(dir, "config.cue")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ceiling: 2\n"), 0o644))

	// 1/1 then 2/1 is fine under ceiling 2; the third append lands on 3/1
	// and must trigger renormalization.
	_, err := runCLI(t, "add", "--db", db, "--config", cfgPath, "a")
	require.NoError(t, err)
	_, err = runCLI(t, "add", "--db", db, "--config", cfgPath, "b")
	require.NoError(t, err)

	out, err := runCLI(t, "add", "--db", db, "--config", cfgPath, "c")
	require.NoError(t, err)
	assert.Contains(t, out, "renormalized")
}

func TestCheckCommand_ReportsViolations(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ordinal.db")

	_, err := runCLI(t, "add", "--db", db, "a")
	require.NoError(t, err)

	// Write an oversized key behind the engine's back.
	st, _, err := openEngine(&RootOptions{DB: db, Format: "text"})
	require.NoError(t, err)
	_, execErr := st.DB().Exec(
		`INSERT INTO items (collection, item_id, p, q) VALUES ('default', 'huge', 10000019, 1)`)
	require.NoError(t, execErr)
	require.NoError(t, st.Close())

	out, err := runCLI(t, "check", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "CEILING_EXCEEDED")
	assert.Contains(t, out, "huge")
}
