package tailer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Iron-Ham/proclog/internal/logging"
)

// follow starts Follow in the background and returns a channel of entries,
// a channel of raw lines and a stop function that waits for Follow to end.
func follow(t *testing.T, path string, fromStart bool) (<-chan logging.Entry, <-chan string, func() error) {
	t.Helper()
	return followWith(t, path, Options{FromStart: fromStart})
}

// followWith is follow with explicit options. PollInterval, OnRaw and
// OnReady are set by the helper.
func followWith(t *testing.T, path string, opts Options) (<-chan logging.Entry, <-chan string, func() error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	entries := make(chan logging.Entry, 64)
	raw := make(chan string, 64)
	ready := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		opts.PollInterval = 20 * time.Millisecond
		opts.OnRaw = func(line string) { raw <- line }
		opts.OnReady = func() { close(ready) }
		done <- Follow(ctx, path, opts, func(e logging.Entry) { entries <- e })
	}()

	select {
	case <-ready:
	case err := <-done:
		cancel()
		t.Fatalf("Follow exited early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("timeout waiting for Follow to start")
	}

	stop := func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for Follow to stop")
			return nil
		}
	}
	return entries, raw, stop
}

func receive(t *testing.T, entries <-chan logging.Entry) logging.Entry {
	t.Helper()
	select {
	case e := <-entries:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for entry")
		return logging.Entry{}
	}
}

func appendToFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("failed to append: %v", err)
	}
}

func TestFollowLogger(t *testing.T) {
	logger, err := logging.NewLoggerAt(t.TempDir(), "probe")
	if err != nil {
		t.Fatalf("NewLoggerAt failed: %v", err)
	}
	defer logger.Close()

	_ = logger.Info("before follow", "Probe")

	entries, _, stop := follow(t, logger.Path(), false)

	_ = logger.Warning("low space", "CheckDisk")
	_ = logger.Info("disk ok", "Probe")

	first := receive(t, entries)
	if first.Level != logging.LevelWarning || first.Module != "CheckDisk" || first.Message != "low space" {
		t.Errorf("unexpected first entry: %+v", first)
	}
	second := receive(t, entries)
	if second.Message != "disk ok" {
		t.Errorf("unexpected second entry: %+v", second)
	}

	if err := stop(); err != nil {
		t.Errorf("Follow returned %v", err)
	}

	select {
	case e := <-entries:
		t.Errorf("entry written before follow was emitted: %+v", e)
	default:
	}
}

func TestFollowFromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe_20260101000000.log")
	content := "2026-01-01 00:00:00,[INFO],Probe,first\n2026-01-01 00:00:01,[ERROR],Run,second\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	entries, _, stop := follow(t, path, true)
	defer func() { _ = stop() }()

	if e := receive(t, entries); e.Message != "first" {
		t.Errorf("first entry = %+v", e)
	}
	if e := receive(t, entries); e.Message != "second" || e.Level != logging.LevelError {
		t.Errorf("second entry = %+v", e)
	}
}

func TestFollowFromOffset(t *testing.T) {
	logger, err := logging.NewLoggerAt(t.TempDir(), "probe")
	if err != nil {
		t.Fatalf("NewLoggerAt failed: %v", err)
	}
	defer logger.Close()

	_ = logger.Info("already shown", "Probe")
	shown, offset, err := logging.ReadCompleteEntries(logger.Path())
	if err != nil {
		t.Fatalf("ReadCompleteEntries failed: %v", err)
	}
	if len(shown) != 1 {
		t.Fatalf("expected 1 entry before following, got %d", len(shown))
	}

	// Written after the read but before following starts
	_ = logger.Warning("in between", "CheckDisk")

	entries, _, stop := followWith(t, logger.Path(), Options{Offset: offset})
	defer func() { _ = stop() }()

	_ = logger.Error("after start", "Run")

	if e := receive(t, entries); e.Message != "in between" || e.Level != logging.LevelWarning {
		t.Errorf("first followed entry = %+v, want the in-between warning", e)
	}
	if e := receive(t, entries); e.Message != "after start" {
		t.Errorf("second followed entry = %+v", e)
	}
}

func TestFollowPartialLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe_20260101000000.log")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	entries, raw, stop := follow(t, path, false)
	defer func() { _ = stop() }()

	appendToFile(t, path, "2026-01-01 00:00:00,[INFO],Probe,spl")
	time.Sleep(100 * time.Millisecond)

	select {
	case e := <-entries:
		t.Fatalf("partial line emitted early: %+v", e)
	default:
	}

	appendToFile(t, path, "it line\nnot a log line\n")

	if e := receive(t, entries); e.Message != "split line" {
		t.Errorf("entry = %+v, want message %q", e, "split line")
	}

	select {
	case line := <-raw:
		if line != "not a log line" {
			t.Errorf("raw line = %q", line)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for raw line")
	}
}

func TestFollowTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe_20260101000000.log")
	if err := os.WriteFile(path, []byte("2026-01-01 00:00:00,[INFO],Probe,old entry with a long message\n"), 0644); err != nil {
		t.Fatal(err)
	}

	entries, _, stop := follow(t, path, false)
	defer func() { _ = stop() }()

	if err := os.WriteFile(path, []byte("2026-01-01 00:00:09,[INFO],Probe,new\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if e := receive(t, entries); e.Message != "new" {
		t.Errorf("entry = %+v, want message %q", e, "new")
	}
}

func TestFollowMissingFile(t *testing.T) {
	err := Follow(context.Background(), filepath.Join(t.TempDir(), "missing.log"), Options{}, func(logging.Entry) {})
	if err == nil {
		t.Error("expected error for missing file")
	}
}
