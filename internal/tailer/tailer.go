// Package tailer follows a log file while another process writes it.
package tailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Iron-Ham/proclog/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is how often the file is re-checked when no
// filesystem event arrives. Some filesystems (network mounts, some
// containers) never deliver write events.
const DefaultPollInterval = 500 * time.Millisecond

// Options controls Follow.
type Options struct {
	// FromStart emits the entries already in the file before following.
	// When false, following starts at Offset, or at the current end of the
	// file when Offset is zero.
	FromStart bool

	// Offset is the byte position to start following from, typically the
	// end of an earlier read of the same file. Entries after it that are
	// already in the file are emitted first.
	Offset int64

	// PollInterval overrides DefaultPollInterval.
	PollInterval time.Duration

	// OnRaw receives lines that do not parse as entries. Nil drops them.
	OnRaw func(line string)

	// OnReady is called once the starting offset is established and the
	// watch is in place.
	OnReady func()
}

// tail tracks the read position in one file.
type tail struct {
	file    *os.File
	offset  int64
	partial string // bytes after the last newline
	emit    func(logging.Entry)
	onRaw   func(string)
}

// Follow reads entries appended to the file at path and passes each one to
// fn, in file order, until ctx is cancelled. A line is emitted only once its
// newline has been written. If the file shrinks it is read again from the
// start. Follow returns nil when ctx is cancelled.
func Follow(ctx context.Context, path string, opts Options, fn func(logging.Entry)) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	t := &tail{file: file, emit: fn, onRaw: opts.OnRaw}
	switch {
	case opts.FromStart, opts.Offset > 0:
		if !opts.FromStart {
			t.offset = opts.Offset
		}
		if err := t.drain(); err != nil {
			return err
		}
	default:
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return fmt.Errorf("failed to seek to end: %w", err)
		}
		t.offset = end
	}

	if opts.OnReady != nil {
		opts.OnReady()
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			switch {
			case ev.Op&fsnotify.Write != 0:
				if err := t.drain(); err != nil {
					return err
				}
			case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
				// Log files are never rotated, so the run is over.
				if err := t.drain(); err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				return fmt.Errorf("log file %s was removed", path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error on %s: %w", path, err)

		case <-ticker.C:
			if err := t.drain(); err != nil {
				return err
			}
		}
	}
}

// drain reads everything between the last offset and the current end of
// the file and emits the complete lines.
func (t *tail) drain() error {
	info, err := t.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	size := info.Size()
	if size < t.offset {
		// Truncated: the file was recreated in place.
		t.offset = 0
		t.partial = ""
	}
	if size == t.offset {
		return nil
	}

	data := make([]byte, size-t.offset)
	n, err := t.file.ReadAt(data, t.offset)
	if err != nil && err != io.EOF {
		return fmt.Errorf("error reading log file: %w", err)
	}
	t.offset += int64(n)
	t.emitLines(string(data[:n]))
	return nil
}

// emitLines splits chunk into lines, keeping a trailing partial line for
// the next chunk.
func (t *tail) emitLines(chunk string) {
	lines := strings.Split(t.partial+chunk, "\n")
	t.partial = lines[len(lines)-1]

	for _, line := range lines[:len(lines)-1] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := logging.ParseEntry(line)
		if err != nil {
			if t.onRaw != nil {
				t.onRaw(line)
			}
			continue
		}
		t.emit(entry)
	}
}
