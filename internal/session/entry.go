package session

import (
	"time"
	"unicode/utf8"
)

// Kind classifies a log entry. The presentation layer maps each kind to an
// icon and color; the state model stays free of styling concerns.
type Kind int

const (
	KindInfo      Kind = iota // lifecycle notices (iteration start, stop signal)
	KindSystem                // system/status messages from the backend
	KindAssistant             // assistant text fragments
	KindReasoning             // thinking/reasoning fragments
	KindToolStart             // tool invocation started
	KindToolOK                // tool invocation completed successfully
	KindToolError             // tool invocation reported an error
	KindFile                  // file mutation notice
	KindSearch                // web search
	KindResult                // iteration result text
	KindCost                  // cost report
	KindError                 // hard error from the backend
	KindSuccess               // iteration completed with exit code 0
	KindFailure               // iteration failed (non-zero exit, exception)
	KindRaw                   // non-JSON output line
	KindItem                  // unrecognized structured item
)

// String returns a short symbolic name for the kind, used by the debug log
// and the non-TTY fallback renderer.
func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindSystem:
		return "system"
	case KindAssistant:
		return "assistant"
	case KindReasoning:
		return "reasoning"
	case KindToolStart:
		return "tool"
	case KindToolOK:
		return "tool-ok"
	case KindToolError:
		return "tool-error"
	case KindFile:
		return "file"
	case KindSearch:
		return "search"
	case KindResult:
		return "result"
	case KindCost:
		return "cost"
	case KindError:
		return "error"
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	case KindRaw:
		return "raw"
	case KindItem:
		return "item"
	}
	return "unknown"
}

// Entry is a single immutable log entry. Entries are appended to the session
// log and never edited afterwards.
type Entry struct {
	Time    time.Time
	Kind    Kind
	Title   string
	Content string
}

// Preview truncates s to at most n bytes, appending a truncation marker when
// content was cut. The cut point backs up to a rune boundary so a preview
// never holds invalid UTF-8.
func Preview(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
