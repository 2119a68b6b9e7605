// codex.go handles the thread/turn/item event vocabulary.
package event

import (
	"fmt"

	"github.com/ralph-dev/ralph/internal/session"
)

func (n *Normalizer) applyThreadStarted(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "thread.started" {
		return false
	}
	id, _ := strField(ev, "thread_id")
	st.SessionID = id
	st.Append(session.KindInfo, "Thread started", session.Preview(id, 20))
	return true
}

func (n *Normalizer) applyTurnStarted(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "turn.started" {
		return false
	}
	st.Append(session.KindSystem, "Turn started", "")
	return true
}

func (n *Normalizer) applyTurnCompleted(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "turn.completed" {
		return false
	}
	cached := 0
	if usage, ok := objField(ev, "usage"); ok {
		if in, ok := intField(usage, "input_tokens"); ok {
			st.SetInputTokens(in)
		}
		if out, ok := intField(usage, "output_tokens"); ok {
			st.SetOutputTokens(out)
		}
		cached, _ = intField(usage, "cached_input_tokens")
	}
	detail := fmt.Sprintf("in:%d out:%d cached:%d", st.InputTokens, st.OutputTokens, cached)
	st.Append(session.KindSuccess, "Turn completed", detail)
	return true
}

func (n *Normalizer) applyTurnFailed(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "turn.failed" {
		return false
	}
	msg, ok := anyField(ev, "error", "message")
	if !ok {
		msg = "Unknown error"
	}
	text := session.Preview(stringify(msg), previewLine)
	st.LastError = text
	st.Append(session.KindError, "Turn failed", text)
	return true
}

// itemText resolves the human-readable payload of an item through the
// field spellings the backend has used across versions.
func itemText(item map[string]any) string {
	text, _ := strField(item, "text", "content", "message", "summary")
	return text
}

func (n *Normalizer) applyItemStarted(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "item.started" {
		return false
	}
	item, ok := objField(ev, "item")
	if !ok {
		return true
	}
	itemType, ok := strField(item, "type")
	if !ok {
		itemType = "unknown"
	}
	text := itemText(item)

	switch itemType {
	case "command_execution":
		command, _ := strField(item, "command")
		st.CurrentTool = "bash"
		st.Append(session.KindToolStart, "Command", session.Preview(command, previewArgs))
	case "agent_message":
		if text != "" {
			st.Append(session.KindAssistant, "Agent", session.Preview(text, previewText))
		}
	case "reasoning":
		if text != "" {
			st.Append(session.KindReasoning, "Reasoning", session.Preview(text, previewText))
		}
	case "file_change":
		path, _ := strField(item, "path", "file")
		action, ok := strField(item, "action")
		if !ok {
			action = "modify"
		}
		st.Append(session.KindFile, "File "+action, path)
	case "mcp_tool_call":
		name, ok := strField(item, "tool", "name")
		if !ok {
			name = "unknown"
		}
		st.CurrentTool = name
		st.Append(session.KindToolStart, "MCP Tool: "+name, "")
	case "web_search":
		query, _ := strField(item, "query")
		st.Append(session.KindSearch, "Web search", session.Preview(query, 100))
	default:
		// Unrecognized item types are logged, not dropped.
		preview := text
		if preview == "" {
			preview = stringify(item)
		}
		st.Append(session.KindItem, "Item: "+itemType, session.Preview(preview, 100))
	}
	return true
}

func (n *Normalizer) applyItemCompleted(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "item.completed" {
		return false
	}
	item, ok := objField(ev, "item")
	if !ok {
		return true
	}
	itemType, ok := strField(item, "type")
	if !ok {
		itemType = "unknown"
	}
	text := itemText(item)

	switch itemType {
	case "command_execution":
		exitCode, _ := intField(item, "exit_code", "exitCode")
		output, _ := anyField(item, "output", "stdout")
		if exitCode != 0 {
			title := fmt.Sprintf("Command failed (exit %d)", exitCode)
			st.Append(session.KindToolError, title, session.Preview(stringify(output), previewArgs))
		} else {
			st.Append(session.KindToolOK, "Command done", session.Preview(stringify(output), 100))
		}
		st.CurrentTool = ""
	case "agent_message":
		if text != "" {
			st.Append(session.KindAssistant, "Message", session.Preview(text, previewText))
		}
	case "reasoning":
		if text != "" {
			st.Append(session.KindReasoning, "Thought", session.Preview(text, previewText))
		}
	case "file_change":
		path, _ := strField(item, "path", "file")
		st.Append(session.KindFile, "File saved", path)
	case "mcp_tool_call":
		result, _ := anyField(item, "result", "output")
		st.Append(session.KindToolOK, "MCP Result", session.Preview(stringify(result), previewArgs))
		st.CurrentTool = ""
	default:
		if text != "" {
			st.Append(session.KindItem, "Done: "+itemType, session.Preview(text, previewArgs))
		}
	}
	return true
}
