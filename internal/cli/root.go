// Package cli defines Cobra command definitions for the ralph CLI.
// This file contains the root command, engine selection flags, and the
// positional mode/iteration argument parsing.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ralph-dev/ralph/internal/session"
	"github.com/ralph-dev/ralph/internal/supervise"
)

var version = "dev" // set via ldflags at build time

// errInterrupted marks a run ended by an interrupt; Execute maps it to
// exit status 130.
var errInterrupted = errors.New("interrupted")

var (
	codexFlag    bool
	cursorFlag   bool
	cursorCodex  bool
	cursorGrok   bool
	cursorSonnet bool
	cursorOpus   bool
	cursorGemini bool
	debugFlag    bool
	modelFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "ralph [plan|iterations] [iterations]",
	Short: "Supervise an autonomous agent loop with a live status display",
	Long: `Ralph runs a coding agent (claude, codex, or cursor-agent) in a loop,
feeding it the same prompt each iteration and streaming its event output
into a live terminal display. The loop continues until the configured
iteration count is reached or a STOP file appears in .ralph/.`,
	Example: `  ralph                   Build mode with Claude, unbounded
  ralph --codex           Build mode with Codex
  ralph --cursor-grok     Cursor Agent with the Grok model
  ralph plan              Plan mode with Claude
  ralph 20                Build mode, max 20 iterations
  ralph plan 5            Plan mode, max 5 iterations`,
	Version:       version,
	Args:          cobra.MaximumNArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errInterrupted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.BoolVar(&codexFlag, "codex", false, "Use the Codex engine")
	f.BoolVar(&cursorFlag, "cursor", false, "Use the Cursor Agent engine")
	f.BoolVar(&cursorCodex, "cursor-codex", false, "Cursor Agent with the Codex model")
	f.BoolVar(&cursorGrok, "cursor-grok", false, "Cursor Agent with the Grok model")
	f.BoolVar(&cursorSonnet, "cursor-claude-sonnet", false, "Cursor Agent with the Claude Sonnet model")
	f.BoolVar(&cursorOpus, "cursor-claude-opus", false, "Cursor Agent with the Claude Opus model")
	f.BoolVar(&cursorGemini, "cursor-gemini", false, "Cursor Agent with the Gemini model")
	f.StringVar(&modelFlag, "model", "", "Override the model for the selected engine")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Append every entry and raw line to .ralph/session.log")

	rootCmd.MarkFlagsMutuallyExclusive(
		"codex", "cursor", "cursor-codex", "cursor-grok",
		"cursor-claude-sonnet", "cursor-claude-opus", "cursor-gemini",
	)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(stopCmd)
}

// selectEngine resolves the engine flags into a backend and an optional
// model override for the cursor variants.
func selectEngine() (supervise.Backend, string) {
	switch {
	case codexFlag:
		return supervise.BackendCodex, ""
	case cursorFlag:
		return supervise.BackendCursor, ""
	case cursorCodex:
		return supervise.BackendCursor, "gpt-5.2-codex"
	case cursorGrok:
		return supervise.BackendCursor, "grok"
	case cursorSonnet:
		return supervise.BackendCursor, "sonnet-4.5"
	case cursorOpus:
		return supervise.BackendCursor, "opus-4.5"
	case cursorGemini:
		return supervise.BackendCursor, "gemini-3-pro"
	}
	return supervise.BackendClaude, ""
}

// parseModeArgs interprets the positional arguments: "plan" selects plan
// mode, a bare number sets the iteration bound, and "plan N" does both.
func parseModeArgs(args []string) (mode string, maxIterations int, err error) {
	mode = session.ModeBuild

	if len(args) == 0 {
		return mode, 0, nil
	}

	if args[0] == session.ModePlan {
		mode = session.ModePlan
		if len(args) > 1 {
			n, convErr := strconv.Atoi(args[1])
			if convErr != nil || n < 0 {
				return "", 0, fmt.Errorf("invalid iteration count %q", args[1])
			}
			maxIterations = n
		}
		return mode, maxIterations, nil
	}

	n, convErr := strconv.Atoi(args[0])
	if convErr != nil || n < 0 {
		return "", 0, fmt.Errorf("expected 'plan' or an iteration count, got %q", args[0])
	}
	if len(args) > 1 {
		return "", 0, fmt.Errorf("unexpected argument %q", args[1])
	}
	return mode, n, nil
}
