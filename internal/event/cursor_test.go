package event

import (
	"strings"
	"testing"

	"github.com/ralph-dev/ralph/internal/session"
)

func TestUnwrapToolCall(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]any
		wantName string
	}{
		{
			name:     "direct name field",
			payload:  map[string]any{"name": "shell", "args": map[string]any{}},
			wantName: "shell",
		},
		{
			name:     "nested function name",
			payload:  map[string]any{"function": map[string]any{"name": "grep"}},
			wantName: "grep",
		},
		{
			name:     "envelope with ToolCall suffix",
			payload:  map[string]any{"fileWriteToolCall": map[string]any{"args": map[string]any{"path": "x"}}},
			wantName: "fileWrite",
		},
		{
			name:     "envelope with Call suffix",
			payload:  map[string]any{"searchCall": map[string]any{}},
			wantName: "search",
		},
		{
			name:     "envelope with non-object value",
			payload:  map[string]any{"pingCall": "zap"},
			wantName: "ping",
		},
		{
			name:     "nil payload",
			payload:  nil,
			wantName: "unknown",
		},
		{
			name:     "multi-key payload without name",
			payload:  map[string]any{"a": 1, "b": 2},
			wantName: "unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, _, _ := unwrapToolCall(tt.payload)
			if name != tt.wantName {
				t.Errorf("unwrapToolCall() name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestToolCallEnvelopeRoundTrip(t *testing.T) {
	st := newState()
	n := New()

	n.Normalize(`{"type":"tool_call","subtype":"started","tool_call":{"readToolCall":{"args":{"path":"main.go"}}}}`, st)
	if st.CurrentTool != "read" {
		t.Fatalf("CurrentTool = %q, want read", st.CurrentTool)
	}

	n.Normalize(`{"type":"tool_call","subtype":"completed","tool_call":{"readToolCall":{"result":{"success":{"lines":12}}}}}`, st)
	if st.CurrentTool != "" {
		t.Errorf("CurrentTool = %q, want cleared", st.CurrentTool)
	}
	e := lastEntry(t, st)
	if e.Kind != session.KindToolOK {
		t.Errorf("kind = %v, want %v", e.Kind, session.KindToolOK)
	}
}

func TestToolCallCompletedError(t *testing.T) {
	st := newState()
	New().Normalize(`{"type":"tool_call","subtype":"completed","tool_call":{"shellToolCall":{"result":{"error":"command not found"}}}}`, st)

	e := lastEntry(t, st)
	if e.Kind != session.KindToolError {
		t.Errorf("kind = %v, want %v", e.Kind, session.KindToolError)
	}
	if !strings.Contains(e.Content, "command not found") {
		t.Errorf("content = %q", e.Content)
	}
}

func TestBareEnvelopeLine(t *testing.T) {
	st := newState()
	n := New()

	n.Normalize(`{"fileWriteCall":{"args":{"path":"a.txt"},"result":"done"}}`, st)
	e := lastEntry(t, st)
	if e.Kind != session.KindToolOK {
		t.Errorf("kind = %v, want %v", e.Kind, session.KindToolOK)
	}
	if !strings.Contains(e.Title, "fileWrite") {
		t.Errorf("title = %q, want inferred tool name", e.Title)
	}

	n.Normalize(`{"searchCall":{"args":{"q":"term"}}}`, st)
	if st.CurrentTool != "search" {
		t.Errorf("CurrentTool = %q, want search", st.CurrentTool)
	}

	// A lone usage block must not be misread as an envelope.
	n.Normalize(`{"usage":{"input_tokens":5}}`, st)
	if e := lastEntry(t, st); strings.Contains(e.Title, "usage") {
		t.Errorf("usage block misread as tool envelope: %q", e.Title)
	}
}

func TestThinking(t *testing.T) {
	st := newState()
	n := New()

	n.Normalize(`{"type":"thinking","subtype":"delta","text":"weighing two approaches"}`, st)
	e := lastEntry(t, st)
	if e.Kind != session.KindReasoning || e.Content != "weighing two approaches" {
		t.Errorf("entry = %v %q", e.Kind, e.Content)
	}

	n.Normalize(`{"type":"thinking","subtype":"delta","text":"hm"}`, st)
	if len(st.Entries()) != 1 {
		t.Errorf("short delta should be suppressed, got %d entries", len(st.Entries()))
	}

	n.Normalize(`{"type":"thinking","subtype":"completed"}`, st)
	if e := lastEntry(t, st); e.Content != "Completed" {
		t.Errorf("completed marker = %q", e.Content)
	}
}
