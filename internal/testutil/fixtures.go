// Package testutil provides test helper utilities for ralph tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempProject creates a temporary directory with the given files and returns its path.
// Files is a map of relative path -> content. Directories are created as needed.
// The directory is automatically cleaned up when the test finishes.
func TempProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// InitializedProject returns file contents for a project with a populated
// .ralph control directory.
func InitializedProject() map[string]string {
	return map[string]string{
		".ralph/config.yaml":     "version: 1\nengine: claude\nloop:\n  max_iterations: 100\n",
		".ralph/PROMPT_build.md": "Pick one task and complete it.\n",
		".ralph/PROMPT_plan.md":  "Review the plan.\n",
		".ralph/PLAN.md":         "- [ ] first task\n",
	}
}

// ClaudeStream returns a canned stream of claude-style JSON lines covering
// an init event, a tool round trip, token usage, and a final result.
var ClaudeStream = []string{
	`{"type":"init","session_id":"sess-123","model":"opus-4"}`,
	`{"type":"assistant","message":{"content":[{"type":"text","text":"Working on the first task now."}]}}`,
	`{"type":"tool_use","name":"Bash","id":"tool-1","input":{"command":"go test ./..."}}`,
	`{"type":"tool_result","tool_id":"tool-1","content":"ok"}`,
	`{"type":"result","result":"done","usage":{"input_tokens":1200,"output_tokens":340},"cost_usd":0.0421}`,
}

// CodexStream returns a canned stream of codex-style JSON lines.
var CodexStream = []string{
	`{"type":"thread.started","thread_id":"th-9"}`,
	`{"type":"turn.started"}`,
	`{"type":"item.started","item":{"type":"command_execution","command":"ls"}}`,
	`{"type":"item.completed","item":{"type":"command_execution","command":"ls","exit_code":0,"output":"main.go"}}`,
	`{"type":"turn.completed","usage":{"input_tokens":800,"output_tokens":150,"cached_input_tokens":20}}`,
}

// CursorStream returns a canned stream of cursor-agent-style JSON lines,
// including a single-key envelope tool call.
var CursorStream = []string{
	`{"type":"system","sessionId":"cur-7","model":"sonnet"}`,
	`{"type":"tool_call","subtype":"started","tool_call":{"readToolCall":{"args":{"path":"main.go"}}}}`,
	`{"type":"tool_call","subtype":"completed","tool_call":{"readToolCall":{"result":{"success":{}}}}}`,
	`{"type":"result","result":"finished"}`,
}
