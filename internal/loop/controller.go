// Package loop orchestrates repeated agent iterations: spawn the subprocess,
// feed each output line through the normalizer, settle the exit, and apply
// the continue/stop policy. Every failure inside an iteration is absorbed at
// the iteration boundary; only the configured bounds or an external signal
// end the run.
package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/ralph-dev/ralph/internal/session"
)

// Outcome is why the loop ended.
type Outcome int

const (
	OutcomeMaxIterations Outcome = iota
	OutcomeStopped               // stop marker observed
	OutcomeInterrupted           // context canceled by the environment
)

// String returns the human-readable termination reason.
func (o Outcome) String() string {
	switch o {
	case OutcomeMaxIterations:
		return "max iterations reached"
	case OutcomeStopped:
		return "stop signal"
	case OutcomeInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Handle is one running iteration as seen by the controller.
type Handle interface {
	Lines() <-chan string
	Wait() (int, error)
	Stderr() string
}

// Runner spawns one iteration. Implementations convert a spawn failure
// (missing executable, permission denied) into an error; the controller
// turns that into a failed iteration, not a fatal condition.
type Runner interface {
	Start(ctx context.Context, prompt string) (Handle, error)
}

// Controller drives the iteration loop over a single owned Session. All
// session mutation happens on the goroutine that calls Run.
type Controller struct {
	State      *session.Session
	Runner     Runner
	Prompt     string
	ControlDir string

	// Normalize maps one raw output line to state mutations.
	Normalize func(line string, st *session.Session)

	// Notify, when set, receives a fresh snapshot after every state change
	// worth repainting. It must not block for long and must not mutate the
	// snapshot's entries.
	Notify func(session.Snapshot)

	// RawLine, when set, receives every raw output line before
	// normalization. Used by the debug log.
	RawLine func(string)
}

// Run executes iterations until the stop marker appears, the configured
// maximum is reached, or ctx is canceled. A stale stop marker from a
// previous run is cleared before the first iteration.
func (c *Controller) Run(ctx context.Context) (Outcome, error) {
	if removed, err := ClearStop(c.ControlDir); err != nil {
		return OutcomeStopped, fmt.Errorf("clearing stale stop marker: %w", err)
	} else if removed {
		c.State.Append(session.KindInfo, "Removed stale STOP file", "")
	}

	for {
		if ctx.Err() != nil {
			return OutcomeInterrupted, nil
		}

		if StopRequested(c.ControlDir) {
			c.State.Append(session.KindSuccess, "Stop signal detected - exiting loop", "")
			c.refresh()
			if _, err := ClearStop(c.ControlDir); err != nil {
				return OutcomeStopped, fmt.Errorf("consuming stop marker: %w", err)
			}
			return OutcomeStopped, nil
		}

		if c.State.MaxIterations > 0 && c.State.Iteration >= c.State.MaxIterations {
			title := fmt.Sprintf("Reached max iterations: %d", c.State.MaxIterations)
			c.State.Append(session.KindInfo, title, "")
			c.refresh()
			return OutcomeMaxIterations, nil
		}

		c.State.Iteration++

		if err := c.runIteration(ctx); err != nil {
			// Failed iterations do not end the run.
			c.State.Append(session.KindInfo, "Continuing to next iteration despite error", "")
			c.refresh()
		}
	}
}

// runIteration performs one spawn-stream-exit cycle. The returned error
// reports that the iteration failed; the caller continues regardless.
func (c *Controller) runIteration(ctx context.Context) error {
	st := c.State
	st.IterationStart = time.Now()
	st.Running = true
	st.CurrentTool = ""
	st.Append(session.KindInfo, fmt.Sprintf("Starting iteration %d", st.Iteration), "")
	c.refresh()

	proc, err := c.Runner.Start(ctx, c.Prompt)
	if err != nil {
		st.Running = false
		st.LastError = err.Error()
		st.Append(session.KindFailure, "Exception", session.Preview(err.Error(), 200))
		c.refresh()
		return err
	}

	for line := range proc.Lines() {
		if c.RawLine != nil {
			c.RawLine(line)
		}
		c.Normalize(line, st)
		c.refresh()
	}

	code, waitErr := proc.Wait()

	duration := time.Since(st.IterationStart)
	st.LastIterationDuration = duration
	st.Running = false
	st.CurrentTool = ""

	switch {
	case waitErr != nil:
		st.LastError = session.Preview(waitErr.Error(), 200)
		st.Append(session.KindFailure, "Exception", session.Preview(waitErr.Error(), 200))
		c.refresh()
		return waitErr

	case code != 0:
		title := fmt.Sprintf("Iteration %d failed (%s, exit code: %d)", st.Iteration, FormatDuration(duration), code)
		st.Append(session.KindFailure, title, "")
		if stderr := proc.Stderr(); stderr != "" {
			st.LastError = session.Preview(stderr, 200)
			st.Append(session.KindFailure, "Process Error", session.Preview(stderr, 500))
		}
		c.refresh()
		return fmt.Errorf("iteration %d exited with code %d", st.Iteration, code)

	default:
		title := fmt.Sprintf("Iteration %d complete (%s)", st.Iteration, FormatDuration(duration))
		st.Append(session.KindSuccess, title, "")
		c.refresh()
		return nil
	}
}

func (c *Controller) refresh() {
	if c.Notify != nil {
		c.Notify(c.State.Snapshot())
	}
}

// FormatDuration renders a duration as whole seconds, minutes, or hours.
// Shared with the presentation layer and final summaries.
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	switch {
	case total < 60:
		return fmt.Sprintf("%ds", total)
	case total < 3600:
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	default:
		return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
	}
}
