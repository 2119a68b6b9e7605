package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ralph-dev/ralph/internal/session"
)

func TestDebugLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")

	l, err := NewDebugLog(path)
	if err != nil {
		t.Fatalf("NewDebugLog: %v", err)
	}

	e := session.Entry{
		Time:    time.Now(),
		Kind:    session.KindToolStart,
		Title:   "Tool: Bash",
		Content: `{"command":"ls"}`,
	}
	if err := l.AppendEntry(e); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}
	if err := l.AppendRaw(`{"type":"init"}` + "\n"); err != nil {
		t.Fatalf("AppendRaw: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "SESSION STARTED:") {
		t.Error("missing session banner")
	}
	if !strings.Contains(text, "[tool] Tool: Bash") {
		t.Errorf("missing entry line in:\n%s", text)
	}
	if !strings.Contains(text, `{"command":"ls"}`) {
		t.Error("missing entry content")
	}
	if !strings.Contains(text, `[RAW] {"type":"init"}`) {
		t.Error("missing raw line")
	}
	if strings.Contains(text, "init\"}\n\n") {
		t.Error("raw line trailing newline not trimmed")
	}
}

func TestDebugLogDoesNotTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")
	if err := os.WriteFile(path, []byte("previous session\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewDebugLog(path); err != nil {
		t.Fatalf("NewDebugLog: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "previous session\n") {
		t.Error("existing log content was truncated")
	}
}
