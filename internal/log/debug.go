// Package log provides the append-only debug log: every log entry and every
// raw output line, timestamped, in arrival order. A failure to write never
// interrupts the loop; callers ignore the returned errors by contract.
package log

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ralph-dev/ralph/internal/session"
)

const timeLayout = "2006-01-02 15:04:05"

// DebugLog appends timestamped lines to a plain-text file. The file is
// opened in append mode, written to, and closed on every write so a crash
// loses at most the line in flight. Thread-safe via mutex.
type DebugLog struct {
	path string
	mu   sync.Mutex
}

// NewDebugLog creates a DebugLog writing to path and appends a session
// banner. Does not truncate an existing file.
func NewDebugLog(path string) (*DebugLog, error) {
	l := &DebugLog{path: path}

	banner := strings.Repeat("=", 80)
	err := l.write(fmt.Sprintf("\n%s\nSESSION STARTED: %s\n%s\n", banner, time.Now().Format(timeLayout), banner))
	if err != nil {
		return nil, fmt.Errorf("creating debug log: %w", err)
	}
	return l, nil
}

// Path returns the log file location.
func (l *DebugLog) Path() string {
	return l.path
}

// AppendEntry records one session log entry.
func (l *DebugLog) AppendEntry(e session.Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s\n", e.Time.Format(timeLayout), e.Kind, e.Title)
	if e.Content != "" {
		b.WriteString(e.Content)
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("-", 40))
	b.WriteString("\n")
	return l.write(b.String())
}

// AppendRaw records one raw output line before normalization.
func (l *DebugLog) AppendRaw(line string) error {
	return l.write(fmt.Sprintf("[%s] [RAW] %s\n", time.Now().Format(timeLayout), strings.TrimRight(line, "\n")))
}

func (l *DebugLog) write(s string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(s); err != nil {
		return fmt.Errorf("write debug log: %w", err)
	}
	return nil
}
