package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ralph-dev/ralph/internal/loop"
	"github.com/ralph-dev/ralph/internal/session"
)

// renderInfo builds the left-hand status panel.
func (m *Model) renderInfo() string {
	s := m.snap

	var b strings.Builder
	b.WriteString(TitleStyle.Render("STATUS"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(LabelStyle.Render(label + ": "))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Engine", s.Engine)
	row("Mode", s.Mode)

	iter := strconv.Itoa(s.Iteration)
	if s.MaxIterations > 0 {
		iter += "/" + strconv.Itoa(s.MaxIterations)
	}
	row("Iteration", iter)

	if s.Model != "" {
		row("Model", s.Model)
	}
	if s.CurrentTool != "" {
		row("Tool", m.spinner.View()+s.CurrentTool)
	}

	b.WriteString("\n")
	row("Tokens In", FormatTokens(s.InputTokens))
	row("Tokens Out", FormatTokens(s.OutputTokens))

	b.WriteString("\n")
	row("Total", loop.FormatDuration(s.TotalDuration()))
	row("Iter", loop.FormatDuration(s.IterationDuration()))
	if s.LastIterationDuration > 0 {
		row("Last", loop.FormatDuration(s.LastIterationDuration))
	}

	b.WriteString("\n")
	if s.Running {
		b.WriteString(RunningStyle.Render("● RUNNING"))
	} else {
		b.WriteString(DimStyle.Render("○ IDLE"))
	}

	if s.LastError != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render("Error: " + session.Preview(s.LastError, 80)))
	}

	return b.String()
}

// FormatTokens renders a count with comma grouping, e.g. 1234567 -> "1,234,567".
func FormatTokens(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	rem := len(s) % 3
	if rem > 0 {
		b.WriteString(s[:rem])
	}
	for i := rem; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// summaryLine is a label/value pair inside the final summary box.
func summaryLine(label, value string) string {
	return fmt.Sprintf("%s %s", LabelStyle.Render(label+":"), value)
}
