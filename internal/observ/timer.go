// Package observ measures where a proof session spends its time.
package observ

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Phase is one measured interval.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer records phases in the order they begin. Not safe for concurrent
// use; each session owns one.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes the phase at idx; out-of-range indices are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Measure runs fn as a phase.
func (t *Timer) Measure(name string, fn func() string) {
	idx := t.Begin(name)
	t.End(idx, fn())
}

// Phases returns a copy of the recorded phases.
func (t *Timer) Phases() []Phase { return slices.Clone(t.phases) }

// PhaseReport is one phase in milliseconds.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// GroupReport aggregates phases sharing a group key (the name up to the
// first space, so "step 3: rw add_comm" and "step 4: rw add_comm" group by
// tactic).
type GroupReport struct {
	Group   string  `json:"group"`
	Count   int     `json:"count"`
	TotalMS float64 `json:"total_ms"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
	Groups  []GroupReport `json:"groups,omitempty"`
}

// Report summarises the timer. Groups are sorted by total time, slowest
// first.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	groups := map[string]*GroupReport{}
	for i, p := range t.phases {
		total += p.Dur
		report.Phases[i] = PhaseReport{Name: p.Name, DurationMS: toMillis(p.Dur), Note: p.Note}
		key := groupKey(p.Name)
		g, ok := groups[key]
		if !ok {
			g = &GroupReport{Group: key}
			groups[key] = g
		}
		g.Count++
		g.TotalMS += toMillis(p.Dur)
	}
	report.TotalMS = toMillis(total)
	for _, g := range groups {
		report.Groups = append(report.Groups, *g)
	}
	slices.SortFunc(report.Groups, func(a, b GroupReport) int {
		switch {
		case a.TotalMS > b.TotalMS:
			return -1
		case a.TotalMS < b.TotalMS:
			return 1
		}
		return strings.Compare(a.Group, b.Group)
	})
	return report
}

// groupKey drops a leading "step N:" so steps group by tactic.
func groupKey(name string) string {
	if rest, ok := strings.CutPrefix(name, "step "); ok {
		if _, after, ok := strings.Cut(rest, ": "); ok {
			name = after
		}
	}
	if head, _, ok := strings.Cut(name, " "); ok {
		return head
	}
	return name
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-28s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-28s %8.2f ms\n", "total", report.TotalMS)
	if len(report.Groups) > 1 {
		sb.WriteString("by tactic:\n")
		for _, g := range report.Groups {
			fmt.Fprintf(&sb, "  %-20s x%-5d %8.2f ms\n", g.Group, g.Count, g.TotalMS)
		}
	}
	return sb.String()
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
