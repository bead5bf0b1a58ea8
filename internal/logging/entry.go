package logging

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EntryTimeLayout is the layout of the timestamp field of a log line.
const EntryTimeLayout = "2006-01-02 15:04:05"

// ErrMalformedEntry is returned when a line does not follow the log format.
var ErrMalformedEntry = errors.New("malformed log entry")

// Level is the severity tag written as the second field of every line.
type Level string

// Log levels supported by the logger
const (
	LevelInfo    Level = "[INFO]"
	LevelWarning Level = "[WARNING]"
	LevelError   Level = "[ERROR]"
)

// levelOrder defines the ordering of log levels for filtering.
var levelOrder = map[Level]int{
	LevelInfo:    0,
	LevelWarning: 1,
	LevelError:   2,
}

// ValidLevels returns the list of level tags in ascending severity.
func ValidLevels() []Level {
	return []Level{LevelInfo, LevelWarning, LevelError}
}

// Name returns the level without brackets, e.g. "WARNING".
func (l Level) Name() string {
	return strings.Trim(string(l), "[]")
}

// Valid reports whether l is one of the known level tags.
func (l Level) Valid() bool {
	_, ok := levelOrder[l]
	return ok
}

// AtLeast reports whether l is as severe as min or more.
func (l Level) AtLeast(min Level) bool {
	return levelOrder[l] >= levelOrder[min]
}

// ParseLevel converts user input such as "warn", "WARNING" or "[ERROR]"
// into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.Trim(strings.TrimSpace(s), "[]")) {
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarning, nil
	case "ERROR", "ERR":
		return LevelError, nil
	default:
		return "", fmt.Errorf("unknown log level %q (valid: info, warning, error)", s)
	}
}

// Entry is one line of a log file.
type Entry struct {
	Time    time.Time `json:"time" yaml:"time"`
	Level   Level     `json:"level" yaml:"level"`
	Module  string    `json:"module" yaml:"module"`
	Message string    `json:"message" yaml:"message"`
}

// FormatEntry renders e as a log line without the trailing newline.
// Commas in the module or message are written as-is.
func FormatEntry(e Entry) string {
	return fmt.Sprintf("%s,%s,%s,%s", e.Time.Format(EntryTimeLayout), e.Level, e.Module, e.Message)
}

// ParseEntry parses a log line. The line is split into at most four
// fields, so any commas after the module belong to the message.
func ParseEntry(line string) (Entry, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.SplitN(line, ",", 4)
	if len(fields) != 4 {
		return Entry{}, fmt.Errorf("%w: expected 4 fields, got %d", ErrMalformedEntry, len(fields))
	}

	ts, err := time.ParseInLocation(EntryTimeLayout, fields[0], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: bad timestamp %q", ErrMalformedEntry, fields[0])
	}

	level := Level(fields[1])
	if !level.Valid() {
		return Entry{}, fmt.Errorf("%w: unknown level %q", ErrMalformedEntry, fields[1])
	}

	return Entry{
		Time:    ts,
		Level:   level,
		Module:  fields[2],
		Message: fields[3],
	}, nil
}
