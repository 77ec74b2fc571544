// Package auditlog appends timestamped action lines to a plain text log.
package auditlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidPath indicates an empty log path.
var ErrInvalidPath = errors.New("auditlog: invalid path")

// timeLayout renders entries as [HH:MM:SS].
const timeLayout = "15:04:05"

// Logger appends one line per action to a file. The file is opened and
// closed on every call and is never truncated. A nil *Logger discards entries.
type Logger struct {
	path string
	now  func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

// WithClock overrides the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// New creates a Logger that appends to path.
func New(path string, opts ...Option) (*Logger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: cannot be empty", ErrInvalidPath)
	}
	l := &Logger{path: path, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the log file path.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Log appends "[HH:MM:SS] action" to the log file.
func (l *Logger) Log(action string) error {
	if l == nil {
		return nil
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("auditlog: creating directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("auditlog: opening %s: %w", l.path, err)
	}

	line := Format(l.now(), action)
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("auditlog: writing %s: %w", l.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("auditlog: closing %s: %w", l.path, err)
	}
	return nil
}

// Format renders a single log line, including the trailing newline.
func Format(ts time.Time, action string) string {
	return fmt.Sprintf("[%s] %s\n", ts.Format(timeLayout), action)
}
