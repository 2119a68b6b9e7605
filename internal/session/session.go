// Package session holds the mutable state for one ralph run: token counts,
// the active tool, the append-only log history, timing, and error status.
// A Session is owned by the loop controller and mutated only from its
// goroutine; everything else sees read-only snapshots.
package session

import (
	"time"
)

// Run modes.
const (
	ModeBuild = "build"
	ModePlan  = "plan"
)

// Session is the state for one run. It is not safe for concurrent mutation;
// the loop controller is its single owner.
type Session struct {
	RunID      string
	Engine     string
	Mode       string
	PromptFile string

	Iteration     int
	MaxIterations int // 0 = unbounded

	SessionID string // backend-assigned session/thread identifier
	Model     string

	CurrentTool  string
	InputTokens  int
	OutputTokens int

	StartTime             time.Time
	IterationStart        time.Time
	LastIterationDuration time.Duration

	Running   bool
	LastError string

	entries   []Entry
	pending   map[string]string // tool call id -> tool name
	observers []func(Entry)
}

// New creates a Session with zeroed counters and an empty log.
func New(runID, engine, mode, promptFile string, maxIterations int) *Session {
	return &Session{
		RunID:         runID,
		Engine:        engine,
		Mode:          mode,
		PromptFile:    promptFile,
		MaxIterations: maxIterations,
		StartTime:     time.Now(),
		pending:       make(map[string]string),
	}
}

// Observe registers fn to be called for every appended entry, in append
// order. Used by the debug log and the non-TTY fallback renderer.
func (s *Session) Observe(fn func(Entry)) {
	s.observers = append(s.observers, fn)
}

// Append adds a log entry. Entries are immutable once appended.
func (s *Session) Append(kind Kind, title, content string) {
	e := Entry{
		Time:    time.Now(),
		Kind:    kind,
		Title:   title,
		Content: content,
	}
	s.entries = append(s.entries, e)
	for _, fn := range s.observers {
		fn(e)
	}
}

// Entries returns the full log history. The returned slice must not be
// mutated by callers.
func (s *Session) Entries() []Entry {
	return s.entries
}

// StartToolCall records a pending tool call so its completion event can be
// matched back to a name, and marks the tool as current.
func (s *Session) StartToolCall(id, name string) {
	if id != "" && name != "" {
		s.pending[id] = name
	}
	s.CurrentTool = name
}

// FinishToolCall resolves the name for a completed call and removes the
// pending record. Returns "" when the id is unknown.
func (s *Session) FinishToolCall(id string) string {
	name := s.pending[id]
	delete(s.pending, id)
	return name
}

// PendingToolCalls reports how many started calls have not seen a
// completion. An unmatched call at run end is notable but not an error.
func (s *Session) PendingToolCalls() int {
	return len(s.pending)
}

// SetInputTokens records a cumulative input token total. Counts never move
// backwards: a report lower than the running total is ignored.
func (s *Session) SetInputTokens(n int) {
	if n > s.InputTokens {
		s.InputTokens = n
	}
}

// SetOutputTokens records a cumulative output token total, clamped the same
// way as SetInputTokens.
func (s *Session) SetOutputTokens(n int) {
	if n > s.OutputTokens {
		s.OutputTokens = n
	}
}

// Snapshot is a read-only copy of the session state handed to the
// presentation layer. Mutating a snapshot has no effect on the session.
type Snapshot struct {
	RunID      string
	Engine     string
	Mode       string
	PromptFile string

	Iteration     int
	MaxIterations int

	SessionID string
	Model     string

	CurrentTool  string
	InputTokens  int
	OutputTokens int

	StartTime             time.Time
	IterationStart        time.Time
	LastIterationDuration time.Duration

	Running   bool
	LastError string

	Entries []Entry
}

// Snapshot returns a copy of the current state, including a copied entry
// slice so later appends do not show through.
func (s *Session) Snapshot() Snapshot {
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)

	return Snapshot{
		RunID:                 s.RunID,
		Engine:                s.Engine,
		Mode:                  s.Mode,
		PromptFile:            s.PromptFile,
		Iteration:             s.Iteration,
		MaxIterations:         s.MaxIterations,
		SessionID:             s.SessionID,
		Model:                 s.Model,
		CurrentTool:           s.CurrentTool,
		InputTokens:           s.InputTokens,
		OutputTokens:          s.OutputTokens,
		StartTime:             s.StartTime,
		IterationStart:        s.IterationStart,
		LastIterationDuration: s.LastIterationDuration,
		Running:               s.Running,
		LastError:             s.LastError,
		Entries:               entries,
	}
}

// TotalDuration is the wall-clock time since the run started.
func (sn Snapshot) TotalDuration() time.Duration {
	return time.Since(sn.StartTime)
}

// IterationDuration is the wall-clock time of the in-flight iteration, or 0
// when no iteration has started.
func (sn Snapshot) IterationDuration() time.Duration {
	if sn.IterationStart.IsZero() {
		return 0
	}
	return time.Since(sn.IterationStart)
}
