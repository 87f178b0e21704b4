package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prover/internal/batch"
	"prover/internal/script"
)

func TestExpandScripts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.toml"), "")
	writeFile(t, filepath.Join(root, "a.toml"), "")
	writeFile(t, filepath.Join(root, "sub", "c.toml"), "")
	writeFile(t, filepath.Join(root, configName), "")
	writeFile(t, filepath.Join(root, "notes.md"), "")

	got, err := expandScripts([]string{root, filepath.Join(root, "a.toml")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.toml"),
		filepath.Join(root, "b.toml"),
		filepath.Join(root, "sub", "c.toml"),
	}, got)

	_, err = expandScripts([]string{filepath.Join(root, "missing.toml")})
	assert.Error(t, err)
	_, err = expandScripts([]string{filepath.Join(root, "sub", "..", "sub", "none")})
	assert.Error(t, err)
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := readUIMode("sometimes")
	assert.Error(t, err)
	assert.True(t, shouldUseTUI(uiModeOn))
	assert.False(t, shouldUseTUI(uiModeOff))
}

func TestSummarize(t *testing.T) {
	outs := []batch.Outcome{
		{Path: "a.toml", Result: &script.Result{Proven: true}, Elapsed: 3 * time.Millisecond},
		{Path: "b.toml", Result: &script.Result{}},
		{Path: "c.toml", Err: errors.New("boom")},
	}
	var buf bytes.Buffer
	err := summarize(&buf, outs, false)
	assert.Error(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "proven"))
	assert.True(t, strings.HasPrefix(lines[1], "open"))
	assert.True(t, strings.HasSuffix(lines[2], "c.toml: boom"))
	assert.Equal(t, "1/3 proven, 1 failed", lines[3])

	buf.Reset()
	require.NoError(t, summarize(&buf, outs[:2], true))
	assert.Equal(t, "1/2 proven, 0 failed\n", buf.String())
}
