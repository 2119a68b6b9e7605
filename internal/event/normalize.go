// Package event normalizes the heterogeneous line-delimited JSON vocabularies
// emitted by the supported agent backends into canonical mutations of the
// session state. Normalization never fails: malformed lines are logged as raw
// output, and unknown event shapes fall through to a generic entry rather
// than being dropped.
package event

import (
	"fmt"
	"strings"

	"github.com/ralph-dev/ralph/internal/session"
)

// Preview bounds, matching the sizing of the different entry kinds.
const (
	previewArgs   = 150 // tool arguments and outputs
	previewLine   = 200 // raw lines and error payloads
	previewText   = 300 // assistant text, reasoning, results
	minFragment   = 10  // fragments at or below this length are streaming noise
	costPrecision = 4
)

// Normalizer maps raw output lines to session state mutations.
type Normalizer struct {
	// CostPrecision is the number of decimal places used when logging cost
	// figures. Display convention, not a protocol contract.
	CostPrecision int
}

// New returns a Normalizer with the default display conventions.
func New() *Normalizer {
	return &Normalizer{CostPrecision: costPrecision}
}

// rule inspects a decoded event and applies its mutation when it matches.
// Rules are independent: several may fire for the same line (a "result"
// event also carrying a "usage" block feeds both rules). It returns whether
// it fired, for the unrecognized-event fallthrough.
type rule func(n *Normalizer, ev map[string]any, st *session.Session) bool

// rules is evaluated in order for every decoded line. The order only matters
// for log-entry ordering, not for correctness; no rule consumes the event.
var rules = []rule{
	(*Normalizer).applyInit,
	(*Normalizer).applySystem,
	(*Normalizer).applyMessage,
	(*Normalizer).applyAssistant,
	(*Normalizer).applyToolUse,
	(*Normalizer).applyContentBlockStart,
	(*Normalizer).applyToolResult,
	(*Normalizer).applyUsage,
	(*Normalizer).applyResult,
	(*Normalizer).applyError,
	(*Normalizer).applyThreadStarted,
	(*Normalizer).applyTurnStarted,
	(*Normalizer).applyTurnCompleted,
	(*Normalizer).applyTurnFailed,
	(*Normalizer).applyItemStarted,
	(*Normalizer).applyItemCompleted,
	(*Normalizer).applyToolCall,
	(*Normalizer).applyEnvelope,
	(*Normalizer).applyThinking,
	(*Normalizer).applyInteractionQuery,
}

// Normalize processes one raw output line. Empty lines are ignored. Lines
// that do not decode as a JSON object are recorded as raw output because
// they often carry error text the structured protocol does not capture.
func (n *Normalizer) Normalize(line string, st *session.Session) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	ev, ok := decodeObject(line)
	if !ok {
		st.Append(session.KindRaw, "Output", session.Preview(line, previewLine))
		return
	}

	fired := false
	for _, r := range rules {
		if r(n, ev, st) {
			fired = true
		}
	}
	if !fired {
		n.applyUnrecognized(ev, st)
	}
}

func eventType(ev map[string]any) string {
	t, _ := ev["type"].(string)
	return t
}

// applyInit captures the session identifier and model name. The init event
// is recognized by its type or, for backends that omit the discriminator,
// by the presence of a session identifier field.
func (n *Normalizer) applyInit(ev map[string]any, st *session.Session) bool {
	_, hasSession := anyField(ev, "session_id", "sessionId")
	if eventType(ev) != "init" && !hasSession {
		return false
	}
	if id, ok := strField(ev, "session_id", "sessionId"); ok {
		st.SessionID = id
	}
	if model, ok := strField(ev, "model"); ok {
		st.Model = model
		st.Append(session.KindInfo, "Model: "+model, "")
	}
	return true
}

func (n *Normalizer) applySystem(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "system" {
		return false
	}
	if msg, ok := strField(ev, "message", "subtype"); ok {
		st.Append(session.KindSystem, "System: "+msg, "")
	}
	return true
}

// applyMessage handles the flat role/content message shape (Gemini).
func (n *Normalizer) applyMessage(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "message" {
		return false
	}
	role, _ := strField(ev, "role")
	content := textContent(ev["content"])
	if role == "assistant" && len(content) > minFragment {
		st.Append(session.KindAssistant, "Assistant", session.Preview(content, previewText))
	}
	return true
}

// applyAssistant handles assistant message events. Content may live under
// message.content, content, or a streaming delta, as a plain string or a
// list of typed fragments. Inline tool_use fragments start a tool.
func (n *Normalizer) applyAssistant(ev map[string]any, st *session.Session) bool {
	switch eventType(ev) {
	case "assistant", "assistant.message", "content_block_delta":
	default:
		return false
	}

	var content string
	var fragments any

	if msg, ok := objField(ev, "message"); ok && msg["content"] != nil {
		fragments = msg["content"]
	} else if ev["content"] != nil {
		fragments = ev["content"]
	} else if delta, ok := objField(ev, "delta"); ok {
		if t, _ := delta["type"].(string); t == "text_delta" {
			content, _ = strField(delta, "text")
		}
	}

	if fragments != nil {
		content = textContent(fragments)
		if list, ok := fragments.([]any); ok {
			for _, item := range list {
				frag, ok := item.(map[string]any)
				if !ok {
					continue
				}
				if t, _ := frag["type"].(string); t != "tool_use" {
					continue
				}
				name, ok := strField(frag, "name")
				if !ok {
					name = "unknown"
				}
				st.CurrentTool = name
				args := stringify(frag["input"])
				st.Append(session.KindToolStart, "Tool: "+name, session.Preview(args, previewArgs))
			}
		}
	}

	if len(content) > minFragment {
		st.Append(session.KindAssistant, "Assistant", session.Preview(content, previewText))
	}
	return true
}

// applyToolUse handles flat tool invocation events. The name, arguments and
// call identifier each resolve through a candidate-key chain.
func (n *Normalizer) applyToolUse(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "tool_use" {
		return false
	}
	name, ok := strField(ev, "name", "tool", "tool_name")
	if !ok {
		name = "unknown"
	}
	id, _ := strField(ev, "tool_id", "id", "call_id")
	st.StartToolCall(id, name)

	args, _ := anyField(ev, "input", "arguments", "parameters")
	st.Append(session.KindToolStart, "Tool: "+name, session.Preview(stringify(args), previewArgs))
	return true
}

func (n *Normalizer) applyContentBlockStart(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "content_block_start" {
		return false
	}
	block, ok := objField(ev, "content_block")
	if !ok {
		return true
	}
	if t, _ := block["type"].(string); t == "tool_use" {
		name, ok := strField(block, "name")
		if !ok {
			name = "unknown"
		}
		st.CurrentTool = name
		st.Append(session.KindToolStart, "Tool: "+name, "")
	}
	return true
}

// applyToolResult handles tool completion. The tool name resolves from an
// explicit field, then the pending-call map, then the current tool, then
// "unknown". Error status comes from an error object, an is_error flag, or
// status == "error".
func (n *Normalizer) applyToolResult(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "tool_result" {
		return false
	}
	id, _ := strField(ev, "tool_id", "id", "call_id")

	name, _ := strField(ev, "name")
	if name == "" {
		name = st.FinishToolCall(id)
	} else {
		st.FinishToolCall(id)
	}
	if name == "" {
		name = st.CurrentTool
	}
	if name == "" {
		name = "unknown"
	}

	output, _ := anyField(ev, "output", "content", "result")
	errInfo, hasErr := anyField(ev, "error")
	isErrFlag, _ := boolField(ev, "is_error")
	status, _ := strField(ev, "status")
	isError := hasErr || isErrFlag || status == "error"

	if isError {
		if errObj, ok := errInfo.(map[string]any); ok {
			if msg, ok := strField(errObj, "message"); ok {
				output = msg
			}
		}
		st.Append(session.KindToolError, "Tool Error: "+name, session.Preview(stringify(output), previewLine))
	} else {
		st.Append(session.KindToolOK, "Tool Result: "+name, session.Preview(stringify(output), previewArgs))
	}

	st.CurrentTool = ""
	return true
}

// applyUsage updates cumulative token counts from a usage or stats block.
// A usage block wins over a stats block when both are present. An absent
// field never overwrites a known count.
func (n *Normalizer) applyUsage(ev map[string]any, st *session.Session) bool {
	block, ok := objField(ev, "usage", "stats")
	if !ok {
		return false
	}
	if in, ok := intField(block, "input_tokens"); ok {
		st.SetInputTokens(in)
	}
	if out, ok := intField(block, "output_tokens"); ok {
		st.SetOutputTokens(out)
	}
	return true
}

// applyResult handles the end-of-iteration result event: final text or
// status, token totals, and a cost figure when present and non-zero.
func (n *Normalizer) applyResult(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "result" {
		return false
	}
	if text, ok := strField(ev, "result"); ok {
		st.Append(session.KindResult, "Result", session.Preview(text, previewText))
	} else if status, ok := anyField(ev, "status"); ok {
		st.Append(session.KindResult, "Result", stringify(status))
	}

	// Usage attached to the result is picked up by applyUsage.

	if cost, ok := floatField(ev, "cost_usd"); ok && cost != 0 {
		st.Append(session.KindCost, fmt.Sprintf("Cost: $%.*f", n.CostPrecision, cost), "")
	}
	return true
}

// applyError captures a hard error into both the log and the state's
// last-error field, unwrapping a structured error object's message.
func (n *Normalizer) applyError(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "error" {
		return false
	}
	raw, _ := anyField(ev, "error", "message")
	text := stringify(raw)
	if errObj, ok := raw.(map[string]any); ok {
		if msg, ok := strField(errObj, "message"); ok {
			text = msg
		}
	}
	if text == "" {
		text = "Unknown error"
	}
	st.LastError = text
	st.Append(session.KindError, "Error", session.Preview(text, previewLine))
	return true
}

func (n *Normalizer) applyInteractionQuery(ev map[string]any, st *session.Session) bool {
	if eventType(ev) != "interaction_query" {
		return false
	}
	query, ok := strField(ev, "query_type")
	if !ok {
		return true
	}
	subtype, _ := strField(ev, "subtype")
	st.Append(session.KindSystem, "Interaction", fmt.Sprintf("%s (%s)", query, subtype))
	return true
}

// applyUnrecognized logs a generic entry for events no rule claimed,
// carrying whatever text or identifier could be found. Silent data loss is
// worse than a noisy log.
func (n *Normalizer) applyUnrecognized(ev map[string]any, st *session.Session) {
	label := eventType(ev)
	if label == "" {
		label = "untyped"
	}
	text, ok := strField(ev, "text", "content", "message", "id")
	if !ok {
		text = stringify(ev)
	}
	st.Append(session.KindItem, "Event: "+label, session.Preview(text, previewArgs))
}
