// Package ui renders batch progress with Bubble Tea.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"prover/internal/batch"
)

type progressModel struct {
	title   string
	events  <-chan batch.Event
	spinner spinner.Model
	prog    progress.Model
	items   []scriptItem
	index   map[string]int
	width   int
	done    bool
}

type scriptItem struct {
	path   string
	status batch.Status
	step   int
	total  int
	detail string
}

type eventMsg batch.Event
type doneMsg struct{}

// NewProgressModel returns a model that follows a batch until events is
// closed.
func NewProgressModel(title string, scripts []string, events <-chan batch.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]scriptItem, 0, len(scripts))
	index := make(map[string]int, len(scripts))
	for i, s := range scripts {
		items = append(items, scriptItem{path: s, status: batch.StatusQueued})
		index[s] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(batch.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	proven, finished := m.counts()
	header := fmt.Sprintf("%s (%d/%d proven)", m.title, proven, len(m.items))
	if m.done || finished == len(m.items) {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth = 10
	const stepWidth = 7
	nameWidth := max(m.width-statusWidth-stepWidth-6, 20)
	for _, it := range m.items {
		status := styleStatus(it.status).Render(fmt.Sprintf("%*s", statusWidth, it.status))
		steps := strings.Repeat(" ", stepWidth)
		if it.total > 0 {
			steps = fmt.Sprintf("%*s", stepWidth, fmt.Sprintf("%d/%d", it.step, it.total))
		}
		line := fmt.Sprintf("  %s %s %s", status, steps, truncate(it.path, nameWidth))
		b.WriteString(line)
		b.WriteString("\n")
		if it.detail != "" {
			b.WriteString("      ")
			b.WriteString(styleStatus(batch.StatusError).Render(truncate(it.detail, m.width-8)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) counts() (proven, finished int) {
	for _, it := range m.items {
		if it.status == batch.StatusProven {
			proven++
		}
		if it.status.Finished() {
			finished++
		}
	}
	return proven, finished
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev batch.Event) tea.Cmd {
	idx, ok := m.index[ev.Script]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	it.status = ev.Status
	if ev.Total > 0 {
		it.step, it.total = ev.Step, ev.Total
	}
	if ev.Err != nil {
		it.detail = firstLine(ev.Err.Error())
	}
	return m.prog.SetPercent(m.percent())
}

// percent counts finished scripts as 1 and running ones by their step
// fraction.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, it := range m.items {
		switch {
		case it.status.Finished():
			total += 1.0
		case it.total > 0:
			total += float64(it.step) / float64(it.total)
		}
	}
	return total / float64(len(m.items))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func styleStatus(status batch.Status) lipgloss.Style {
	switch status {
	case batch.StatusProven:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case batch.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case batch.StatusUnproven:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case batch.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
