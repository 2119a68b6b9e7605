package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/ralph-dev/ralph/internal/loop"
	"github.com/ralph-dev/ralph/internal/session"
)

// PrintEntry writes a single log entry to stdout. Used when no TTY is
// attached and the full-screen display cannot run.
func PrintEntry(e session.Entry) {
	fmt.Printf("[%s] [%s] %s\n", e.Time.Format("15:04:05"), e.Kind, e.Title)
	if e.Content != "" {
		fmt.Printf("    %s\n", e.Content)
	}
}

// RenderSummary builds the end-of-run box printed after the loop exits.
func RenderSummary(s session.Snapshot, outcome loop.Outcome) string {
	var lines []string

	switch outcome {
	case loop.OutcomeInterrupted:
		lines = append(lines, WarningStyle.Render("Ralph Loop interrupted"))
	case loop.OutcomeStopped:
		lines = append(lines, SuccessStyle.Render("Ralph Loop stopped"))
	default:
		lines = append(lines, SuccessStyle.Render("Ralph Loop complete"))
	}
	lines = append(lines, "")

	lines = append(lines, summaryLine("Engine", s.Engine))
	lines = append(lines, summaryLine("Mode", s.Mode))
	lines = append(lines, summaryLine("Iterations", fmt.Sprintf("%d", s.Iteration)))
	lines = append(lines, summaryLine("Tokens",
		fmt.Sprintf("%s in / %s out", FormatTokens(s.InputTokens), FormatTokens(s.OutputTokens))))
	lines = append(lines, summaryLine("Duration", loop.FormatDuration(s.TotalDuration())))
	lines = append(lines, summaryLine("Reason", outcome.String()))
	if s.LastError != "" {
		lines = append(lines, summaryLine("Last error", session.Preview(s.LastError, 120)))
	}
	lines = append(lines, "")
	lines = append(lines, DimStyle.Render("Finished "+time.Now().Format("2006-01-02 15:04:05")))

	body := strings.Join(lines, "\n")
	if outcome == loop.OutcomeInterrupted {
		return InterruptBoxStyle.Render(body)
	}
	return SummaryBoxStyle.Render(body)
}
