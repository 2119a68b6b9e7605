package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ralph-dev/ralph/internal/session"
)

// fakeHandle replays canned lines and returns a fixed exit.
type fakeHandle struct {
	lines  []string
	code   int
	err    error
	stderr string
}

func (h *fakeHandle) Lines() <-chan string {
	ch := make(chan string, len(h.lines))
	for _, l := range h.lines {
		ch <- l
	}
	close(ch)
	return ch
}

func (h *fakeHandle) Wait() (int, error) { return h.code, h.err }
func (h *fakeHandle) Stderr() string     { return h.stderr }

// fakeRunner hands out handles in order; when exhausted it keeps returning
// the last one. startErrs indexes spawn failures by call number.
type fakeRunner struct {
	handles   []*fakeHandle
	startErrs map[int]error
	calls     int

	// onStart, when set, runs before each spawn. Lets tests drop a stop
	// marker or cancel mid-run.
	onStart func(call int)
}

func (r *fakeRunner) Start(ctx context.Context, prompt string) (Handle, error) {
	call := r.calls
	r.calls++
	if r.onStart != nil {
		r.onStart(call)
	}
	if err, ok := r.startErrs[call]; ok {
		return nil, err
	}
	h := r.handles[len(r.handles)-1]
	if call < len(r.handles) {
		h = r.handles[call]
	}
	return h, nil
}

func newController(t *testing.T, runner Runner, maxIterations int) *Controller {
	t.Helper()
	st := session.New("run-t", "claude", session.ModeBuild, "PROMPT_build.md", maxIterations)
	return &Controller{
		State:      st,
		Runner:     runner,
		Prompt:     "do the thing",
		ControlDir: t.TempDir(),
		Normalize: func(line string, st *session.Session) {
			st.Append(session.KindRaw, "Output", line)
		},
	}
}

func TestRunStopsAtMaxIterations(t *testing.T) {
	runner := &fakeRunner{handles: []*fakeHandle{{lines: []string{"a", "b"}}}}
	c := newController(t, runner, 3)

	outcome, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome != OutcomeMaxIterations {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeMaxIterations)
	}
	if runner.calls != 3 {
		t.Errorf("spawned %d iterations, want 3", runner.calls)
	}
	if c.State.Iteration != 3 {
		t.Errorf("Iteration = %d, want 3", c.State.Iteration)
	}
}

func TestRunConsumesStopMarker(t *testing.T) {
	runner := &fakeRunner{handles: []*fakeHandle{{}}}
	c := newController(t, runner, 0)

	runner.onStart = func(call int) {
		if call == 1 {
			if err := RequestStop(c.ControlDir); err != nil {
				t.Fatalf("RequestStop: %v", err)
			}
		}
	}

	outcome, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome != OutcomeStopped {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeStopped)
	}
	// The marker appears during iteration 2, so the check before iteration 3
	// observes it.
	if runner.calls != 2 {
		t.Errorf("spawned %d iterations, want 2", runner.calls)
	}
	if StopRequested(c.ControlDir) {
		t.Error("stop marker not consumed")
	}
}

func TestRunClearsStaleStopMarker(t *testing.T) {
	runner := &fakeRunner{handles: []*fakeHandle{{}}}
	c := newController(t, runner, 1)

	if err := RequestStop(c.ControlDir); err != nil {
		t.Fatalf("RequestStop: %v", err)
	}

	outcome, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome != OutcomeMaxIterations {
		t.Errorf("outcome = %v, want %v (stale marker must not stop the run)", outcome, OutcomeMaxIterations)
	}

	var found bool
	for _, e := range c.State.Entries() {
		if e.Title == "Removed stale STOP file" {
			found = true
		}
	}
	if !found {
		t.Error("stale marker removal not logged")
	}
}

func TestRunContinuesAfterSpawnFailure(t *testing.T) {
	runner := &fakeRunner{
		handles:   []*fakeHandle{{}},
		startErrs: map[int]error{0: errors.New("executable not found")},
	}
	c := newController(t, runner, 2)

	outcome, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome != OutcomeMaxIterations {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeMaxIterations)
	}
	if runner.calls != 2 {
		t.Errorf("spawned %d iterations, want 2 (failure must not end the run)", runner.calls)
	}
	if c.State.LastError == "" {
		t.Error("LastError not recorded for spawn failure")
	}
}

func TestRunContinuesAfterNonZeroExit(t *testing.T) {
	runner := &fakeRunner{handles: []*fakeHandle{
		{code: 1, stderr: "panic: oh no"},
		{},
	}}
	c := newController(t, runner, 2)

	outcome, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome != OutcomeMaxIterations {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeMaxIterations)
	}

	var sawFailure, sawSuccess bool
	for _, e := range c.State.Entries() {
		switch e.Kind {
		case session.KindFailure:
			sawFailure = true
		case session.KindSuccess:
			sawSuccess = true
		}
	}
	if !sawFailure || !sawSuccess {
		t.Errorf("sawFailure=%v sawSuccess=%v, want both", sawFailure, sawSuccess)
	}
}

func TestRunInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	runner := &fakeRunner{handles: []*fakeHandle{{}}}
	c := newController(t, runner, 0)
	runner.onStart = func(call int) {
		if call == 1 {
			cancel()
		}
	}

	outcome, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome != OutcomeInterrupted {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeInterrupted)
	}
}

func TestRunStreamsLinesThroughNormalize(t *testing.T) {
	runner := &fakeRunner{handles: []*fakeHandle{{lines: []string{"one", "two"}}}}
	c := newController(t, runner, 1)

	var raw []string
	c.RawLine = func(line string) { raw = append(raw, line) }

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(raw) != 2 || raw[0] != "one" || raw[1] != "two" {
		t.Errorf("raw lines = %v, want [one two]", raw)
	}

	var normalized int
	for _, e := range c.State.Entries() {
		if e.Kind == session.KindRaw {
			normalized++
		}
	}
	if normalized != 2 {
		t.Errorf("normalized %d lines, want 2", normalized)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{95 * time.Second, "1m 35s"},
		{3700 * time.Second, "1h 1m 40s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
