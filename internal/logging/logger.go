package logging

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// ErrClosed is returned by write methods called after Close.
var ErrClosed = errors.New("logger is closed")

// Logger appends leveled, timestamped lines to its own log file.
// Every write is flushed to the file before the call returns.
// It is safe for concurrent use.
type Logger struct {
	mu      sync.Mutex // Serializes writes and Close
	logfile Logfile
	file    *os.File
	w       *bufio.Writer
	closed  bool
	now     func() time.Time
}

// NewLogger creates a Logger writing to a fresh file in the OS temp
// directory named after the running program and the current time.
// An existing file with the same name is truncated.
func NewLogger() (*Logger, error) {
	lf, err := NewLogfile()
	if err != nil {
		return nil, fmt.Errorf("failed to compute log file path: %w", err)
	}
	return openLogger(lf)
}

// NewLoggerAt is like NewLogger with an explicit directory and program
// name. An empty dir means the OS temp directory; an empty filename means
// the name from the binary's build metadata.
func NewLoggerAt(dir, filename string) (*Logger, error) {
	var version string
	if filename == "" {
		name, v, err := ProgramMetadata()
		if err != nil {
			return nil, fmt.Errorf("failed to compute log file path: %w", err)
		}
		filename, version = name, v
	}

	lf := NewLogfileIn(dir, filename, time.Now())
	lf.Version = version
	return openLogger(lf)
}

// openLogger opens lf.Path read-write, creating or truncating it.
// Other processes may open the same file for reading and writing.
func openLogger(lf Logfile) (*Logger, error) {
	file, err := os.OpenFile(lf.Path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		logfile: lf,
		file:    file,
		w:       bufio.NewWriter(file),
		now:     time.Now,
	}, nil
}

// NopLogger returns a Logger that discards all log output.
// Useful for testing or when logging is disabled.
func NopLogger() *Logger {
	return &Logger{
		w:   bufio.NewWriter(io.Discard),
		now: time.Now,
	}
}

// Path returns the path of the log file, or "" for a NopLogger.
func (l *Logger) Path() string {
	return l.logfile.Path
}

// Logfile returns the location the Logger was opened with.
func (l *Logger) Logfile() Logfile {
	return l.logfile
}

// Error writes an [ERROR] line for module.
func (l *Logger) Error(message, module string) error {
	return l.writeEntry(message, LevelError, module)
}

// Err writes exactly two consecutive [ERROR] lines for err: its message,
// then a diagnostic rendering with the error's type, every wrapped cause and
// the stack of the caller (at most maxStackFrames frames, innermost first).
// Newlines inside error messages are replaced with " | " so each line stays
// one physical line. A nil err writes nothing.
func (l *Logger) Err(err error, module string) error {
	if err == nil {
		return nil
	}
	detail := describeError(err) + stackTrace(2)
	return l.writeEntries(LevelError, module, singleLine(err.Error()), detail)
}

// Warning writes a [WARNING] line for module.
func (l *Logger) Warning(message, module string) error {
	return l.writeEntry(message, LevelWarning, module)
}

// Info writes an [INFO] line for module.
func (l *Logger) Info(message, module string) error {
	return l.writeEntry(message, LevelInfo, module)
}

// Log writes a line at level for module. It is the generic form of Error,
// Warning and Info for callers that pick the level at run time.
func (l *Logger) Log(level Level, message, module string) error {
	if !level.Valid() {
		return fmt.Errorf("unknown log level %q", level)
	}
	return l.writeEntry(message, level, module)
}

func (l *Logger) writeEntry(message string, level Level, module string) error {
	return l.writeEntries(level, module, message)
}

// writeEntries writes one line per message under a single lock, so lines
// from one call are never interleaved with another goroutine's. Each line
// takes its own timestamp.
func (l *Logger) writeEntries(level Level, module string, messages ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	for _, message := range messages {
		line := FormatEntry(Entry{
			Time:    l.now(),
			Level:   level,
			Module:  module,
			Message: message,
		})
		if _, err := l.w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write log entry: %w", err)
		}
		if err := l.w.Flush(); err != nil {
			return fmt.Errorf("failed to flush log entry: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the log file. Calling Close more than once is a
// no-op; writes after Close return ErrClosed.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if err := l.w.Flush(); err != nil {
		if l.file != nil {
			_ = l.file.Close()
			l.file = nil
		}
		return fmt.Errorf("failed to flush log file: %w", err)
	}

	if l.file != nil {
		if err := l.file.Sync(); err != nil {
			_ = l.file.Close()
			l.file = nil
			return fmt.Errorf("failed to sync log file: %w", err)
		}
		if err := l.file.Close(); err != nil {
			l.file = nil
			return fmt.Errorf("failed to close log file: %w", err)
		}
		l.file = nil
	}
	return nil
}

// describeError renders err as "type: message", followed by
// " ---> type: message" for each error it wraps.
func describeError(err error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%T: %s", err, singleLine(err.Error()))

	for _, cause := range causes(err) {
		fmt.Fprintf(&sb, " ---> %T: %s", cause, singleLine(cause.Error()))
	}
	return sb.String()
}

// singleLine joins the lines of msg with " | ".
func singleLine(msg string) string {
	if !strings.ContainsAny(msg, "\r\n") {
		return msg
	}
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	return strings.ReplaceAll(msg, "\n", " | ")
}

// causes walks the wrap chain of err depth first, including every branch
// of errors created with errors.Join or multiple %w verbs.
func causes(err error) []error {
	var out []error
	switch x := err.(type) {
	case interface{ Unwrap() error }:
		if inner := x.Unwrap(); inner != nil {
			out = append(out, inner)
			out = append(out, causes(inner)...)
		}
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if inner == nil {
				continue
			}
			out = append(out, inner)
			out = append(out, causes(inner)...)
		}
	}
	return out
}

// maxStackFrames bounds the stack rendered by Err.
const maxStackFrames = 8

// stackTrace formats the stack starting skip frames above stackTrace as
// " at pkg.Func (file:line)" per frame. Runtime frames are left out.
func stackTrace(skip int) string {
	pcs := make([]uintptr, maxStackFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return ""
	}

	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&sb, " at %s (%s:%d)", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}
