// cursor.go handles the tool_call/thinking event vocabulary, including the
// single-key envelope shape that nests the tool identity inside a wrapper
// object instead of a flat name field.
package event

import (
	"strings"

	"github.com/ralph-dev/ralph/internal/session"
)

// envelopeSuffixes are stripped from a wrapper key when inferring the tool
// name, longest first so "ToolCall" is removed before "Call" would match.
var envelopeSuffixes = []string{"ToolCall", "toolCall", "Call"}

// unwrapToolCall resolves a tool call payload to its name, arguments, and
// result. When no direct name field exists and the payload has exactly one
// key, that key is the tool name (suffix-stripped) and its value is the
// real payload.
func unwrapToolCall(payload map[string]any) (name string, args, result any) {
	if payload == nil {
		return "unknown", nil, nil
	}

	name, _ = strField(payload, "name", "tool_name", "tool", "type")
	if name == "" {
		if fn, ok := objField(payload, "function"); ok {
			name, _ = strField(fn, "name")
		}
	}

	inner := payload
	if name == "" && len(payload) == 1 {
		for key, value := range payload {
			name = key
			for _, suffix := range envelopeSuffixes {
				if strings.HasSuffix(name, suffix) {
					name = strings.TrimSuffix(name, suffix)
					break
				}
			}
			if obj, ok := value.(map[string]any); ok {
				inner = obj
			} else {
				inner = map[string]any{}
			}
		}
	}

	args, _ = anyField(inner, "args", "arguments")
	result, _ = anyField(inner, "result", "output")
	if name == "" {
		name = "unknown"
	}
	return name, args, result
}

func (n *Normalizer) applyToolCall(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "tool_call" {
		return false
	}
	subtype, _ := strField(ev, "subtype")
	payload, _ := objField(ev, "tool_call")
	name, args, result := unwrapToolCall(payload)

	id, _ := strField(ev, "call_id")
	if id == "" && payload != nil {
		id, _ = strField(payload, "id")
	}

	switch subtype {
	case "started":
		st.StartToolCall(id, name)
		st.Append(session.KindToolStart, "Tool: "+name, session.Preview(stringify(args), previewArgs))
	case "completed":
		// A completed result may wrap the payload one level deeper under a
		// success/error/failure key.
		failed := false
		if obj, ok := result.(map[string]any); ok {
			if v, ok := anyField(obj, "error", "failure"); ok {
				result = v
				failed = true
			} else if v, ok := anyField(obj, "success"); ok {
				result = v
			}
		}
		if failed {
			st.Append(session.KindToolError, "Tool Error: "+name, session.Preview(stringify(result), previewLine))
		} else {
			st.Append(session.KindToolOK, "Tool Result: "+name, session.Preview(stringify(result), previewArgs))
		}
		st.CurrentTool = ""
		st.FinishToolCall(id)
	}
	return true
}

// applyEnvelope handles a bare single-key envelope line with no
// discriminator at all: the key names the tool, its value is the payload.
// Restricted to keys carrying a known suffix so single-key events that
// belong to other rules (a lone usage block) are never misread.
func (n *Normalizer) applyEnvelope(ev map[string]any, st *session.Session) bool {
	if len(ev) != 1 {
		return false
	}
	var key string
	for k := range ev {
		key = k
	}
	var suffixed bool
	for _, suffix := range envelopeSuffixes {
		if key != suffix && strings.HasSuffix(key, suffix) {
			suffixed = true
			break
		}
	}
	if !suffixed {
		return false
	}

	name, args, result := unwrapToolCall(ev)
	if result != nil {
		st.Append(session.KindToolOK, "Tool Result: "+name, session.Preview(stringify(result), previewArgs))
		return true
	}
	st.CurrentTool = name
	st.Append(session.KindToolStart, "Tool: "+name, session.Preview(stringify(args), previewArgs))
	return true
}

// applyThinking logs reasoning deltas under the usual short-fragment
// suppression, and a fixed marker for the end of a reasoning stream.
func (n *Normalizer) applyThinking(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "thinking" {
		return false
	}
	subtype, _ := strField(ev, "subtype")
	text, _ := strField(ev, "text")
	switch {
	case subtype == "delta" && len(text) > minFragment:
		st.Append(session.KindReasoning, "Reasoning", session.Preview(text, previewText))
	case subtype == "completed":
		st.Append(session.KindReasoning, "Reasoning", "Completed")
	}
	return true
}
