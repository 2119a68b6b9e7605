package supervise

import (
	"slices"
	"testing"

	"github.com/ralph-dev/ralph/internal/session"
)

func TestParseBackend(t *testing.T) {
	for _, name := range []string{"claude", "codex", "cursor-agent"} {
		if _, err := ParseBackend(name); err != nil {
			t.Errorf("ParseBackend(%q) error = %v", name, err)
		}
	}
	if _, err := ParseBackend("gpt-shell"); err == nil {
		t.Error("ParseBackend accepted unknown backend")
	}
}

func TestBuildInvocationClaude(t *testing.T) {
	inv, err := BuildInvocation(BackendClaude, "the prompt", "/work", "", session.ModeBuild)
	if err != nil {
		t.Fatalf("BuildInvocation: %v", err)
	}
	if inv.Command != "claude" {
		t.Errorf("Command = %q", inv.Command)
	}
	if !inv.PromptViaStdin {
		t.Error("claude prompt must travel via stdin")
	}
	if slices.Contains(inv.Args, "the prompt") {
		t.Error("prompt must not appear in argv")
	}
	// Default model applied when none is configured.
	i := slices.Index(inv.Args, "--model")
	if i < 0 || inv.Args[i+1] != "opus" {
		t.Errorf("args = %v, want default model opus", inv.Args)
	}
	if !slices.Contains(inv.Args, "--output-format=stream-json") {
		t.Errorf("args = %v, want stream-json output", inv.Args)
	}
}

func TestBuildInvocationCodex(t *testing.T) {
	inv, err := BuildInvocation(BackendCodex, "fix the bug", "/work", "", session.ModeBuild)
	if err != nil {
		t.Fatalf("BuildInvocation: %v", err)
	}
	if inv.PromptViaStdin {
		t.Error("codex prompt must travel as an argument")
	}
	if len(inv.Args) < 2 || inv.Args[0] != "exec" || inv.Args[1] != "fix the bug" {
		t.Errorf("args = %v, want exec <prompt> leading", inv.Args)
	}
	if !slices.Contains(inv.Args, "--json") {
		t.Errorf("args = %v, want --json", inv.Args)
	}
}

func TestBuildInvocationCursor(t *testing.T) {
	inv, err := BuildInvocation(BackendCursor, "plan it", "/work", "sonnet-4.5", session.ModePlan)
	if err != nil {
		t.Fatalf("BuildInvocation: %v", err)
	}
	if inv.Command != "cursor-agent" {
		t.Errorf("Command = %q", inv.Command)
	}

	i := slices.Index(inv.Args, "--model")
	if i < 0 || inv.Args[i+1] != "sonnet-4.5" {
		t.Errorf("args = %v, want model flag", inv.Args)
	}
	i = slices.Index(inv.Args, "--mode")
	if i < 0 || inv.Args[i+1] != "plan" {
		t.Errorf("args = %v, want plan mode flag", inv.Args)
	}

	// Prompt comes after the terminator so it can't be mistaken for a flag.
	n := len(inv.Args)
	if n < 2 || inv.Args[n-2] != "--" || inv.Args[n-1] != "plan it" {
		t.Errorf("args = %v, want trailing -- <prompt>", inv.Args)
	}
}

func TestBuildInvocationCursorBuildOmitsModeFlag(t *testing.T) {
	inv, err := BuildInvocation(BackendCursor, "p", "/work", "", session.ModeBuild)
	if err != nil {
		t.Fatalf("BuildInvocation: %v", err)
	}
	if slices.Contains(inv.Args, "--mode") {
		t.Errorf("args = %v, build mode must not pass --mode", inv.Args)
	}
	if slices.Contains(inv.Args, "--model") {
		t.Errorf("args = %v, empty model must not pass --model", inv.Args)
	}
}
