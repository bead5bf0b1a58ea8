// Package logging provides process log files with leveled entries.
// This file contains utilities for reading, filtering and exporting log
// files after (or while) a program writes them.
package logging

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// EntryFilter defines criteria for filtering log entries.
type EntryFilter struct {
	// MinLevel filters to entries at or above this level (INFO < WARNING < ERROR).
	// Empty means no level filtering.
	MinLevel Level

	// Module filters to entries from this exact module.
	// Empty string means no module filtering.
	Module string

	// Since filters to entries at or after this time.
	// Zero value means no start time filtering.
	Since time.Time

	// Until filters to entries at or before this time.
	// Zero value means no end time filtering.
	Until time.Time

	// MessageContains filters to entries whose message contains this substring.
	// Empty string means no message filtering.
	MessageContains string
}

// ReadEntries reads and parses every entry of the log file at path, in
// file order. Blank lines and lines that do not parse are skipped.
func ReadEntries(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file found: %w", err)
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ScanEntries(file)
}

// ReadCompleteEntries is like ReadEntries but stops after the last complete
// line. It also returns the byte offset just past that line, where a
// follower can resume without skipping or repeating a line.
func ReadCompleteEntries(path string) ([]Entry, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("no log file found: %w", err)
		}
		return nil, 0, fmt.Errorf("failed to read log file: %w", err)
	}

	complete := data[:bytes.LastIndexByte(data, '\n')+1]
	entries, err := ScanEntries(bytes.NewReader(complete))
	if err != nil {
		return nil, 0, err
	}
	return entries, int64(len(complete)), nil
}

// ScanEntries parses entries from r until EOF.
func ScanEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)

	// Increase buffer size for potentially long log lines
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := ParseEntry(line)
		if err != nil {
			// Multi-line messages and foreign writers leave lines we
			// cannot attribute; keep going.
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}
	return entries, nil
}

// FilterEntries returns the entries matching every criterion of filter.
func FilterEntries(entries []Entry, filter EntryFilter) []Entry {
	if filter == (EntryFilter{}) {
		return entries
	}

	var filtered []Entry
	for _, entry := range entries {
		if filter.Match(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// Match reports whether entry satisfies all criteria of f.
func (f EntryFilter) Match(entry Entry) bool {
	if f.MinLevel != "" && !entry.Level.AtLeast(f.MinLevel) {
		return false
	}
	if f.Module != "" && entry.Module != f.Module {
		return false
	}
	if !f.Since.IsZero() && entry.Time.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && entry.Time.After(f.Until) {
		return false
	}
	if f.MessageContains != "" && !strings.Contains(entry.Message, f.MessageContains) {
		return false
	}
	return true
}

// ExportFormats returns the formats accepted by ExportEntries.
func ExportFormats() []string {
	return []string{"json", "text", "csv", "yaml"}
}

// ExportEntries writes entries to outputPath in the given format.
func ExportEntries(entries []Entry, outputPath string, format string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := WriteEntries(file, entries, format); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteEntries encodes entries to w. Supported formats: json, text, csv, yaml.
func WriteEntries(w io.Writer, entries []Entry, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return exportJSON(w, entries)
	case "text":
		return exportText(w, entries)
	case "csv":
		return exportCSV(w, entries)
	case "yaml", "yml":
		return exportYAML(w, entries)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: %s)", format, strings.Join(ExportFormats(), ", "))
	}
}

// exportJSON writes entries as a JSON array.
func exportJSON(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

// exportText writes entries back in the log line format.
func exportText(w io.Writer, entries []Entry) error {
	for _, entry := range entries {
		if _, err := io.WriteString(w, FormatEntry(entry)+"\n"); err != nil {
			return fmt.Errorf("failed to write text entry: %w", err)
		}
	}
	return nil
}

// exportCSV writes entries as quoted CSV with a header row. Unlike the log
// format, commas inside fields survive a round trip.
func exportCSV(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"timestamp", "level", "module", "message"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.Time.Format(EntryTimeLayout),
			entry.Level.Name(),
			entry.Module,
			entry.Message,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// exportYAML writes entries as a YAML sequence.
func exportYAML(w io.Writer, entries []Entry) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// FindLogfiles returns the log files written by runs of the program named
// filename in dir, oldest first. Files whose suffix is not a valid
// timestamp are ignored. An empty dir means the OS temp directory.
func FindLogfiles(dir, filename string) ([]string, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "*_*.log", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", dir, err)
	}

	type run struct {
		path string
		at   time.Time
	}
	var runs []run
	prefix := filename + "_"
	for _, m := range matches {
		if !strings.HasPrefix(m, prefix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(m, prefix), ".log")
		at, err := time.ParseInLocation(FileTimestampLayout, stamp, time.Local)
		if err != nil {
			continue
		}
		runs = append(runs, run{path: filepath.Join(dir, m), at: at})
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].at.Before(runs[j].at)
	})

	paths := make([]string, len(runs))
	for i, r := range runs {
		paths[i] = r.path
	}
	return paths, nil
}

// LatestLogfile returns the newest log file for filename in dir.
func LatestLogfile(dir, filename string) (string, error) {
	paths, err := FindLogfiles(dir, filename)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no log files for %q in %s", filename, dir)
	}
	return paths[len(paths)-1], nil
}
