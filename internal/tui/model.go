package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ralph-dev/ralph/internal/config"
	"github.com/ralph-dev/ralph/internal/session"
)

const (
	infoPanelWidth = 26
	tickInterval   = 250 * time.Millisecond
)

// Model is the live status display. It renders session snapshots pushed by
// the loop controller and never mutates the session itself.
type Model struct {
	snap    session.Snapshot
	display config.DisplayConfig

	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int

	interrupting bool
	cancel       context.CancelFunc
}

// NewModel creates the display for an initial snapshot. cancel is invoked
// when the user requests an interrupt; the loop then winds down and sends
// LoopDoneMsg.
func NewModel(snap session.Snapshot, display config.DisplayConfig, cancel context.CancelFunc) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = WarningStyle

	vp := viewport.New(60, 20)

	return &Model{
		snap:     snap,
		display:  display,
		viewport: vp,
		spinner:  sp,
		width:    80,
		height:   24,
		cancel:   cancel,
	}
}

// Init starts the spinner and the duration tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case SnapshotMsg:
		m.snap = msg.Snapshot
		atBottom := m.viewport.AtBottom()
		m.viewport.SetContent(m.renderEntries())
		if atBottom {
			m.viewport.GotoBottom()
		}
		return m, nil

	case LoopDoneMsg:
		return m, tea.Quit

	case tickMsg:
		// Repaint so the duration readouts advance between events.
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case KeyCtrlC:
			if !m.interrupting {
				m.interrupting = true
				m.cancel()
			}
			return m, nil
		}

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.viewport.SetContent(m.renderEntries())
		m.viewport.GotoBottom()
		return m, nil
	}

	// Pass to viewport for scrolling.
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) resizeViewport() {
	w := m.width - infoPanelWidth - 10
	if w < 20 {
		w = 20
	}
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	m.viewport.Width = w
	m.viewport.Height = h
}

// View renders the header, info panel, and log panel.
func (m *Model) View() string {
	header := m.renderHeader()

	info := InfoBoxStyle.Render(m.renderInfo())
	log := LogBoxStyle.
		Width(m.viewport.Width + 2).
		Render(TitleStyle.Render("LOG") + "\n" + m.viewport.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, info, log)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.interrupting {
		b.WriteString(WarningStyle.Render("Interrupting after current iteration..."))
	} else {
		b.WriteString(DimStyle.Render("↑/↓: Scroll  Ctrl+C: Stop"))
	}
	return b.String()
}

func (m *Model) renderHeader() string {
	title := "Ralph Loop"
	detail := DimStyle.Render(" | ") +
		TitleStyle.Render(strings.ToUpper(m.snap.Engine)) +
		DimStyle.Render(" | ") +
		SuccessStyle.Render(m.snap.Mode)
	return HeaderStyle.Width(m.width - 2).Render(title + detail)
}

// renderEntries builds the log panel content from the snapshot's entries.
// Only the most recent window of entries is rendered; the full history lives
// in the debug log.
func (m *Model) renderEntries() string {
	entries := m.snap.Entries
	if len(entries) == 0 {
		return DimStyle.Render("Waiting for events...")
	}

	var b strings.Builder
	if max := m.display.LogEntries; max > 0 && len(entries) > max {
		skipped := len(entries) - max
		entries = entries[skipped:]
		b.WriteString(DimStyle.Render(fmt.Sprintf("[Showing %d-%d of %d entries]", skipped+1, skipped+len(entries), len(m.snap.Entries))))
		b.WriteString("\n")
	}
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		g := glyphFor(e.Kind)
		b.WriteString(DimStyle.Render("[" + e.Time.Format("15:04:05") + "] "))
		b.WriteString(g.style.Render(g.icon + " " + e.Title))
		if e.Content != "" {
			b.WriteString("\n")
			b.WriteString(DimStyle.Render("           " + e.Content))
		}
	}
	return b.String()
}
