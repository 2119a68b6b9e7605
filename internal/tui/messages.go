package tui

import (
	"github.com/ralph-dev/ralph/internal/loop"
	"github.com/ralph-dev/ralph/internal/session"
)

// SnapshotMsg carries a fresh session snapshot from the loop controller.
type SnapshotMsg struct {
	Snapshot session.Snapshot
}

// LoopDoneMsg signals that the loop has finished and the display should
// shut down.
type LoopDoneMsg struct {
	Outcome loop.Outcome
}

// tickMsg drives the duration readouts between snapshots.
type tickMsg struct{}
