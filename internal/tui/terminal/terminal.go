// Package terminal handles host terminal dressing: window title and, on
// supporting terminals, tab color. Everything here is best-effort.
package terminal

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

// Setup names the terminal window after the run and tints the tab on
// iTerm2 so parallel loops are easy to tell apart.
func Setup(engine, mode string) {
	out := termenv.NewOutput(os.Stderr)
	out.SetWindowTitle(fmt.Sprintf("Ralph Loop - %s %s", engine, mode))

	if os.Getenv("TERM_PROGRAM") == "iTerm.app" {
		// iTerm2 proprietary tab color escape (violet).
		fmt.Fprint(os.Stderr, "\x1b]6;1;bg;red;brightness;138\a")
		fmt.Fprint(os.Stderr, "\x1b]6;1;bg;green;brightness;43\a")
		fmt.Fprint(os.Stderr, "\x1b]6;1;bg;blue;brightness;226\a")
	}
}

// Reset restores the terminal title and clears any tab color.
func Reset() {
	out := termenv.NewOutput(os.Stderr)
	out.SetWindowTitle("")

	if os.Getenv("TERM_PROGRAM") == "iTerm.app" {
		fmt.Fprint(os.Stderr, "\x1b]6;1;bg;*;default\a")
	}
}
