package logging

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"
)

// FileTimestampLayout is the layout of the timestamp suffix in log file names.
const FileTimestampLayout = "20060102150405"

// ErrMetadataUnavailable is returned when the running binary carries no
// build metadata to derive a log file name from.
var ErrMetadataUnavailable = errors.New("program metadata unavailable")

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Logfile describes where a single process run writes its log.
// It is computed once and never changes afterwards.
type Logfile struct {
	// Path is the absolute path of the log file.
	Path string
	// Filename is the descriptive program name the path is derived from.
	// It is used verbatim, without sanitizing.
	Filename string
	// Version is the program version read alongside the name.
	Version string
}

// NewLogfile computes the log file location for the running program:
// {tempDir}/{name}_{yyyyMMddHHmmss}.log, using local time.
func NewLogfile() (Logfile, error) {
	name, version, err := ProgramMetadata()
	if err != nil {
		return Logfile{}, err
	}
	lf := NewLogfileIn(os.TempDir(), name, time.Now())
	lf.Version = version
	return lf, nil
}

// NewLogfileIn computes a log file location from an explicit directory,
// program name and timestamp. An empty dir means the OS temp directory.
func NewLogfileIn(dir, filename string, at time.Time) Logfile {
	if dir == "" {
		dir = os.TempDir()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	name := fmt.Sprintf("%s_%s.log", filename, at.Local().Format(FileTimestampLayout))
	return Logfile{
		Path:     filepath.Join(dir, name),
		Filename: filename,
	}
}

// ProgramMetadata returns the descriptive name and version of the running
// binary from its embedded build information. The name is the last element
// of the main package path, so "github.com/acme/tool/cmd/tool" yields "tool".
func ProgramMetadata() (name, version string, err error) {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return "", "", ErrMetadataUnavailable
	}

	name = path.Base(strings.TrimSuffix(info.Path, "/"))
	if name == "" || name == "." || name == "/" {
		return "", "", fmt.Errorf("%w: build info has no main package path", ErrMetadataUnavailable)
	}
	return name, info.Main.Version, nil
}
