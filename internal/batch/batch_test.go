package batch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prover/internal/forest"
)

const provable = `
[goal]
statement = { implies = ["P", "P"] }

[[steps]]
tactic = "intro"

[[steps]]
tactic = "assumption"
`

const unfinished = `
[goal]
statement = { and = ["true", "true"] }

[[steps]]
tactic = "split"
`

const broken = `
[goal]
statement = { lt = ["x"] }
`

func writeScripts(t *testing.T, files map[string]string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.toml", "b.toml", "c.toml", "d.toml"} {
		src, ok := files[name]
		if !ok {
			continue
		}
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
		paths = append(paths, p)
	}
	return paths
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) last(script string) Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out Event
	for _, e := range r.events {
		if e.Script == script {
			out = e
		}
	}
	return out
}

func TestRunMixedBatch(t *testing.T) {
	paths := writeScripts(t, map[string]string{
		"a.toml": provable,
		"b.toml": unfinished,
		"c.toml": broken,
	})
	paths = append(paths, filepath.Join(t.TempDir(), "missing.toml"))
	rec := &recorder{}
	snaps := t.TempDir()

	outs, err := Run(context.Background(), Request{Paths: paths, Jobs: 2, Progress: rec, SnapshotDir: snaps})
	require.NoError(t, err)
	require.Len(t, outs, 4)

	assert.True(t, outs[0].Proven())
	assert.NoError(t, outs[1].Err)
	assert.False(t, outs[1].Proven())
	assert.Error(t, outs[2].Err)
	assert.Error(t, outs[3].Err)
	assert.Nil(t, outs[3].Result)

	assert.Equal(t, StatusProven, rec.last(paths[0]).Status)
	assert.Equal(t, StatusUnproven, rec.last(paths[1]).Status)
	assert.Equal(t, StatusError, rec.last(paths[2]).Status)
	assert.Equal(t, StatusError, rec.last(paths[3]).Status)

	require.NotEmpty(t, outs[0].Snapshot)
	f, err := forest.Load(outs[0].Snapshot)
	require.NoError(t, err)
	assert.Equal(t, outs[0].Session, f.Session())
	assert.True(t, f.IsFullyProven())
}

func TestRunCancelled(t *testing.T) {
	paths := writeScripts(t, map[string]string{"a.toml": provable, "b.toml": provable})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outs, err := Run(ctx, Request{Paths: paths, Jobs: 1})
	assert.ErrorIs(t, err, context.Canceled)
	for _, o := range outs {
		assert.Error(t, o.Err)
	}
}

func TestStatusFinished(t *testing.T) {
	assert.False(t, StatusQueued.Finished())
	assert.False(t, StatusWorking.Finished())
	assert.True(t, StatusProven.Finished())
	assert.True(t, StatusUnproven.Finished())
	assert.True(t, StatusError.Finished())
}
