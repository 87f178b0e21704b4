// Package render prints forests and theorem catalogs for terminals.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"prover/internal/forest"
	"prover/internal/theory"
)

// Options control Forest output.
type Options struct {
	Color bool
	// Goals prints the full goal (context and turnstile) under each goal
	// node instead of only its target.
	Goals bool
	// Width caps line length; 0 disables truncation.
	Width int
}

type palette struct {
	id, tactic, dim *color.Color
	status          map[forest.Status]*color.Color
}

func newPalette(on bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		id:     mk(color.FgCyan),
		tactic: mk(color.FgMagenta),
		dim:    mk(color.Faint),
		status: map[forest.Status]*color.Color{
			forest.StatusTodo:       mk(color.FgYellow),
			forest.StatusInProgress: mk(color.FgBlue),
			forest.StatusWip:        mk(color.FgBlue),
			forest.StatusComplete:   mk(color.FgGreen, color.Bold),
			forest.StatusAbandoned:  mk(color.FgRed),
		},
	}
}

// statusWidth fits the longest status name.
const statusWidth = len("in-progress")

// Forest writes one line per node, indented by depth:
//
//	#1 in-progress  goal ⊢ (P → P)
//	  #2 complete     intro  goal ⊢ P
func Forest(w io.Writer, f *forest.Forest, opts Options) error {
	p := newPalette(opts.Color)
	var err error
	f.Walk(func(n forest.Node, depth int) bool {
		if err != nil {
			return false
		}
		indent := strings.Repeat("  ", depth)
		var body strings.Builder
		if n.Tactic != "" {
			body.WriteString(p.tactic.Sprint(n.Tactic))
			body.WriteString("  ")
		}
		body.WriteString(n.Role.String())
		if n.Description != "" {
			body.WriteString(p.dim.Sprint("  # " + n.Description))
		}
		line := fmt.Sprintf("%s%s %s %s",
			indent,
			p.id.Sprint(n.ID.String()),
			p.status[n.Status].Sprint(pad(n.Status.String(), statusWidth)),
			body.String())
		if opts.Width > 0 && !opts.Color {
			line = runewidth.Truncate(line, opts.Width, "…")
		}
		if _, err = fmt.Fprintln(w, line); err != nil {
			return false
		}
		if opts.Goals && n.Role.Kind() == forest.RoleGoal {
			for _, gl := range strings.Split(n.Role.Goal().String(), "\n") {
				if _, err = fmt.Fprintln(w, indent+"    "+p.dim.Sprint(gl)); err != nil {
					return false
				}
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	verdict := "open"
	c := p.status[forest.StatusTodo]
	if f.IsFullyProven() {
		verdict, c = "proven", p.status[forest.StatusComplete]
	}
	_, err = fmt.Fprintf(w, "%s: %s (%d nodes, %d open goals)\n",
		f.Initial().Target(), c.Sprint(verdict), f.Len(), len(f.OpenGoals()))
	return err
}

// Theorems lists a registry sorted by name, names aligned.
func Theorems(w io.Writer, reg *theory.Registry, useColor bool) error {
	p := newPalette(useColor)
	names := reg.Names()
	width := 0
	for _, n := range names {
		width = max(width, runewidth.StringWidth(n))
	}
	for _, n := range names {
		th, err := reg.Lookup(n)
		if err != nil {
			return err
		}
		line := p.tactic.Sprint(pad(n, width)) + "  " + statement(th)
		if th.Description != "" {
			line += p.dim.Sprint("  # " + th.Description)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func statement(th theory.Theorem) string {
	var sb strings.Builder
	for _, h := range th.Hypotheses {
		sb.WriteString(h.String())
		sb.WriteString(" ⊢ ")
	}
	sb.WriteString(th.Conclusion.String())
	return sb.String()
}

// pad right-pads s to width display columns.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
