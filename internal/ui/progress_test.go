package ui

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"prover/internal/batch"
)

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan batch.Event)
	m := NewProgressModel("proving", []string{"a.toml", "b.toml"}, events).(*progressModel)

	m.Update(eventMsg(batch.Event{Script: "a.toml", Status: batch.StatusWorking, Step: 1, Total: 4}))
	if got := m.percent(); got != 0.125 {
		t.Fatalf("percent = %v, want 0.125", got)
	}
	m.Update(eventMsg(batch.Event{Script: "a.toml", Status: batch.StatusProven, Step: 4, Total: 4}))
	m.Update(eventMsg(batch.Event{Script: "b.toml", Status: batch.StatusError, Err: errors.New("steps[0]: boom\ndetails")}))
	m.Update(eventMsg(batch.Event{Script: "unknown.toml", Status: batch.StatusProven}))

	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
	proven, finished := m.counts()
	if proven != 1 || finished != 2 {
		t.Fatalf("counts = %d/%d, want 1/2", proven, finished)
	}
	view := m.View()
	for _, want := range []string{"1/2 proven", "4/4", "steps[0]: boom", "b.toml"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "details") {
		t.Errorf("view should show only the first error line:\n%s", view)
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan batch.Event)
	close(events)
	m := NewProgressModel("proving", []string{"a.toml"}, events).(*progressModel)
	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("got %T, want doneMsg", msg)
	}
	m.Update(msg)
	if !m.done {
		t.Fatal("model should be done")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a-very-long-script-name.toml", 10); got != "a-very-..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}
