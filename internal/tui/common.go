// Package tui implements the live status display using Bubble Tea: a header
// bar, an info panel with run vitals, and a scrolling log panel. The display
// is a pure projection of session snapshots pushed by the loop controller.
package tui

import (
	"os"

	"golang.org/x/term"
)

// Common key binding constants.
const (
	KeyCtrlC = "ctrl+c"
	KeyUp    = "up"
	KeyDown  = "down"
)

// IsTTY returns true if stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
