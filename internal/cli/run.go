// run.go wires one loop run together: directories, config, prompt, debug
// log, supervisor, controller, and the live display or its non-TTY fallback.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ralph-dev/ralph/internal/config"
	"github.com/ralph-dev/ralph/internal/event"
	"github.com/ralph-dev/ralph/internal/history"
	"github.com/ralph-dev/ralph/internal/log"
	"github.com/ralph-dev/ralph/internal/loop"
	"github.com/ralph-dev/ralph/internal/session"
	"github.com/ralph-dev/ralph/internal/supervise"
	"github.com/ralph-dev/ralph/internal/tui"
	"github.com/ralph-dev/ralph/internal/tui/terminal"
)

// locateDirs resolves the project root and control directory. The process
// always works from the project root, one level above .ralph/, even when
// launched inside the control directory itself.
func locateDirs() (projectRoot, controlDir string, err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("getting working directory: %w", err)
	}
	if filepath.Base(cwd) == config.ControlDirName {
		cwd = filepath.Dir(cwd)
	}
	return cwd, filepath.Join(cwd, config.ControlDirName), nil
}

// runnerAdapter narrows *supervise.Process to the controller's Handle
// interface.
type runnerAdapter struct {
	r *supervise.Runner
}

func (a runnerAdapter) Start(ctx context.Context, prompt string) (loop.Handle, error) {
	p, err := a.r.Start(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	backend, variantModel := selectEngine()
	mode, maxIterations, err := parseModeArgs(args)
	if err != nil {
		return err
	}

	projectRoot, controlDir, err := locateDirs()
	if err != nil {
		return err
	}
	if _, err := os.Stat(controlDir); os.IsNotExist(err) {
		return fmt.Errorf("%s/ not found. Run 'ralph init' first", config.ControlDirName)
	}

	cfg, err := config.ReadConfig(projectRoot)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if maxIterations == 0 {
		maxIterations = cfg.Loop.MaxIterations
	}

	model := resolveModel(cfg, backend, variantModel)

	// The prompt file is the one startup-fatal requirement.
	promptFile := cfg.PromptFile(mode)
	promptPath := filepath.Join(controlDir, promptFile)
	promptBytes, err := os.ReadFile(promptPath)
	if err != nil {
		return fmt.Errorf("reading prompt file %s: %w", promptPath, err)
	}
	prompt := string(promptBytes)

	terminal.Setup(string(backend), mode)
	defer terminal.Reset()

	st := session.New(uuid.NewString(), string(backend), mode, promptFile, maxIterations)

	var dbg *log.DebugLog
	if debugFlag {
		var dbgErr error
		dbg, dbgErr = log.NewDebugLog(filepath.Join(controlDir, "session.log"))
		if dbgErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create debug log: %v\n", dbgErr)
			dbg = nil
		} else {
			st.Observe(func(e session.Entry) { _ = dbg.AppendEntry(e) })
		}
	}

	st.Append(session.KindInfo, "Ralph Loop started", "")
	st.Append(session.KindSystem, fmt.Sprintf("Engine: %s, Mode: %s", backend, mode), "")
	st.Append(session.KindSystem, "Prompt: "+promptFile, "")
	if maxIterations > 0 {
		st.Append(session.KindSystem, fmt.Sprintf("Max iterations: %d", maxIterations), "")
	}

	norm := event.New()
	norm.CostPrecision = cfg.Display.CostPrecision

	ctrl := &loop.Controller{
		State: st,
		Runner: runnerAdapter{r: &supervise.Runner{
			Backend:     backend,
			ProjectRoot: projectRoot,
			Model:       model,
			Mode:        mode,
		}},
		Prompt:     prompt,
		ControlDir: controlDir,
		Normalize:  norm.Normalize,
	}
	if dbg != nil {
		ctrl.RawLine = func(line string) { _ = dbg.AppendRaw(line) }
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var outcome loop.Outcome
	var runErr error

	if tui.IsTTY() {
		outcome, runErr = runWithDisplay(ctx, cancel, ctrl, cfg.Display)
	} else {
		st.Observe(tui.PrintEntry)
		outcome, runErr = ctrl.Run(ctx)
	}

	snap := st.Snapshot()
	recordHistory(controlDir, snap, outcome)
	fmt.Println()
	fmt.Println(tui.RenderSummary(snap, outcome))

	if runErr != nil {
		return runErr
	}
	if outcome == loop.OutcomeInterrupted {
		return errInterrupted
	}
	return nil
}

// runWithDisplay runs the controller on its own goroutine while the
// bubbletea program owns the terminal. State flows one way: the controller
// pushes snapshots into the program; the display never mutates the session.
func runWithDisplay(ctx context.Context, cancel context.CancelFunc, ctrl *loop.Controller, display config.DisplayConfig) (loop.Outcome, error) {
	model := tui.NewModel(ctrl.State.Snapshot(), display, cancel)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctrl.Notify = func(sn session.Snapshot) {
		p.Send(tui.SnapshotMsg{Snapshot: sn})
	}

	var outcome loop.Outcome
	var runErr error
	go func() {
		outcome, runErr = ctrl.Run(ctx)
		p.Send(tui.LoopDoneMsg{Outcome: outcome})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		return outcome, errors.Join(runErr, fmt.Errorf("display: %w", err))
	}
	return outcome, runErr
}

// resolveModel picks the model override for the selected backend: an
// explicit --model wins, then the cursor variant flag, then config.
func resolveModel(cfg *config.Config, backend supervise.Backend, variantModel string) string {
	if modelFlag != "" {
		return modelFlag
	}
	switch backend {
	case supervise.BackendClaude:
		return cfg.Models.Claude
	case supervise.BackendCursor:
		if variantModel != "" {
			return variantModel
		}
		return cfg.Models.Cursor
	}
	return ""
}

// recordHistory appends the finished run to the history ledger. Best
// effort: a ledger failure is reported but never changes the exit status.
func recordHistory(controlDir string, snap session.Snapshot, outcome loop.Outcome) {
	store, err := history.Open(filepath.Join(controlDir, "history.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
		return
	}
	defer func() { _ = store.Close() }()

	rec := history.Record{
		RunID:        snap.RunID,
		Engine:       snap.Engine,
		Mode:         snap.Mode,
		Iterations:   snap.Iteration,
		InputTokens:  snap.InputTokens,
		OutputTokens: snap.OutputTokens,
		Outcome:      outcome.String(),
		StartedAt:    snap.StartTime,
		FinishedAt:   time.Now(),
	}
	if err := store.Record(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record run: %v\n", err)
	}
}
