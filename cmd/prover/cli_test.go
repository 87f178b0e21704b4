package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliScript = `
name = "cli"

[goal]
variables = [{ name = "x", type = "nat" }]
statement = { eq = [{ add = ["x", 0] }, "x"] }

[[steps]]
tactic = "rw"
theorem = "add_zero"

[[steps]]
tactic = "trivial"
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	teardownSession(err)
	return out.String(), err
}

// Flags on the shared command tree persist between executions, so the
// steps run in one test and in order.
func TestCLI(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, configName)
	writeFile(t, cfg, `
[log]
level = "error"

[trace]
level = "step"
mode = "ring"
`)
	scriptPath := filepath.Join(dir, "cli.toml")
	writeFile(t, scriptPath, cliScript)
	snapshot := filepath.Join(dir, "cli.forest")

	t.Run("check", func(t *testing.T) {
		out, err := execute(t, "--config", cfg, "--color", "off", "check", scriptPath)
		require.NoError(t, err)
		assert.Contains(t, out, "ok (2 steps)")
	})

	t.Run("run", func(t *testing.T) {
		out, err := execute(t, "run", "--save", snapshot, "--proofs", scriptPath)
		require.NoError(t, err)
		assert.Contains(t, out, "1. rw add_zero @ #1")
		assert.Contains(t, out, "(x + 0) = x: proven")
		assert.Contains(t, out, "rule: refl")
	})

	t.Run("show", func(t *testing.T) {
		out, err := execute(t, "show", "--goals", snapshot)
		require.NoError(t, err)
		assert.Contains(t, out, "x : ℕ")
		assert.Contains(t, out, "proven (3 nodes, 0 open goals)")
	})

	t.Run("theorems", func(t *testing.T) {
		out, err := execute(t, "show", "--theorems")
		require.NoError(t, err)
		assert.Contains(t, out, "add_zero")
		assert.Contains(t, out, "group_inv_inv")
	})

	t.Run("batch", func(t *testing.T) {
		out, err := execute(t, "batch", "--ui", "off", "-j", "2", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "1/1 proven, 0 failed")
	})

	t.Run("version", func(t *testing.T) {
		out, err := execute(t, "version", "--format", "json", "--full")
		require.NoError(t, err)
		assert.Contains(t, out, `"tool": "prover"`)
		assert.Contains(t, out, `"version":`)
	})

	t.Run("unproven run fails", func(t *testing.T) {
		open := filepath.Join(dir, "open", "open.toml")
		writeFile(t, open, "[goal]\nstatement = \"P\"\n")
		_, err := execute(t, "run", "--save", "", "--proofs=false", open)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errNotProven))
	})
}
