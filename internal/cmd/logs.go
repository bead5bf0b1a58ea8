package cmd

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/Iron-Ham/proclog/internal/config"
	"github.com/Iron-Ham/proclog/internal/logging"
	"github.com/Iron-Ham/proclog/internal/output"
	"github.com/Iron-Ham/proclog/internal/tailer"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs [file]",
	Short: "View a run log",
	Long: `View and filter the entries of a run log.

Without a file argument, shows the newest log for the configured program
name. Use flags to filter and format the output.

Examples:
  # Show the last 50 entries of the newest run
  proclog logs --name backup

  # Show every entry of a specific file
  proclog logs /tmp/backup_20261019140307.log -n 0

  # Follow new entries as they are written
  proclog logs -f

  # Only warnings and errors from one module
  proclog logs --level warning --module CheckDisk

  # Entries from the last hour matching a pattern
  proclog logs --since 1h --grep "disk|space"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

var (
	logsTail   int
	logsFollow bool
	logsLevel  string
	logsModule string
	logsSince  string
	logsGrep   string
	logsFormat string
	logsColor  string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", -1, "Number of entries to show, 0 for all (default: output.tail)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (info/warning/error)")
	logsCmd.Flags().StringVar(&logsModule, "module", "", "Filter by module name")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since a duration ago (e.g., 1h, 30m) or a time (yyyy-MM-dd HH:mm:ss)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter entries whose message matches pattern (regex)")
	logsCmd.Flags().StringVar(&logsFormat, "format", "", "Output format: text or json (default: output.format)")
	logsCmd.Flags().StringVar(&logsColor, "color", "", "Color mode: auto, always or never (default: output.color)")
}

// logsQuery holds the parsed filter options of the logs command.
type logsQuery struct {
	filter logging.EntryFilter
	grep   *regexp.Regexp
}

func (q logsQuery) match(entry logging.Entry) bool {
	if !q.filter.Match(entry) {
		return false
	}
	if q.grep != nil && !q.grep.MatchString(entry.Message) {
		return false
	}
	return true
}

func parseLogsQuery(now time.Time) (logsQuery, error) {
	var q logsQuery

	if logsLevel != "" {
		level, err := logging.ParseLevel(logsLevel)
		if err != nil {
			return q, err
		}
		q.filter.MinLevel = level
	}
	q.filter.Module = logsModule

	if logsSince != "" {
		since, err := parseSince(logsSince, now)
		if err != nil {
			return q, err
		}
		q.filter.Since = since
	}

	if logsGrep != "" {
		re, err := regexp.Compile(logsGrep)
		if err != nil {
			return q, fmt.Errorf("invalid grep pattern: %w", err)
		}
		q.grep = re
	}
	return q, nil
}

// parseSince accepts either a duration before now or an absolute local
// time in the log line layout.
func parseSince(value string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return now.Add(-d), nil
	}
	if t, err := time.ParseInLocation(logging.EntryTimeLayout, value, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q: expected a duration (e.g., 1h) or %q", value, "yyyy-MM-dd HH:mm:ss")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logPath, err := resolveLogfile(cfg, args)
	if err != nil {
		return err
	}
	cliLogger(cmd).Debug("reading log file", "path", logPath)

	query, err := parseLogsQuery(time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderer, err := newLogsRenderer(cfg, out)
	if err != nil {
		return err
	}

	tail := cfg.Output.Tail
	if logsTail >= 0 {
		tail = logsTail
	}

	if !logsFollow {
		entries, err := logging.ReadEntries(logPath)
		if err != nil {
			return err
		}
		return displayLogs(out, renderer, entries, query, tail, true)
	}

	// Following resumes right after the last line shown, so entries written
	// in between are not lost.
	entries, offset, err := logging.ReadCompleteEntries(logPath)
	if err != nil {
		return err
	}
	if err := displayLogs(out, renderer, entries, query, tail, false); err != nil {
		return err
	}
	return followLogs(cmd, logPath, offset, renderer, query)
}

func newLogsRenderer(cfg *config.Config, out io.Writer) (output.Renderer, error) {
	format := cfg.Output.Format
	if logsFormat != "" {
		format = logsFormat
	}
	mode := cfg.Output.Color
	if logsColor != "" {
		mode = logsColor
	}

	f, _ := out.(*os.File)
	return output.New(format, out, output.ColorEnabled(mode, f))
}

// displayLogs renders the matching entries, keeping only the last tail of
// them when tail is positive.
func displayLogs(out io.Writer, renderer output.Renderer, entries []logging.Entry, query logsQuery, tail int, reportEmpty bool) error {
	var matched []logging.Entry
	for _, entry := range entries {
		if query.match(entry) {
			matched = append(matched, entry)
		}
	}

	// Apply tail limit
	if tail > 0 && len(matched) > tail {
		matched = matched[len(matched)-tail:]
	}

	for _, entry := range matched {
		if err := renderer.Render(entry); err != nil {
			return err
		}
	}

	if len(matched) == 0 && reportEmpty {
		fmt.Fprintln(out, "No matching log entries found.")
	}
	return nil
}

// followLogs renders entries written to logPath after offset until the
// command's context is cancelled.
func followLogs(cmd *cobra.Command, logPath string, offset int64, renderer output.Renderer, query logsQuery) error {
	out := cmd.OutOrStdout()
	status := cliLogger(cmd)

	var renderErr error
	opts := tailer.Options{
		FromStart: offset == 0,
		Offset:    offset,
		OnReady: func() {
			status.Info("following log file (Ctrl+C to stop)", "path", logPath)
		},
	}
	if _, isText := renderer.(*output.TextRenderer); isText {
		// Lines that are not entries are shown as-is in text mode
		opts.OnRaw = func(line string) {
			if query.grep == nil || query.grep.MatchString(line) {
				fmt.Fprintln(out, line)
			}
		}
	}

	err := tailer.Follow(cmd.Context(), logPath, opts, func(entry logging.Entry) {
		if renderErr != nil || !query.match(entry) {
			return
		}
		renderErr = renderer.Render(entry)
	})
	if err != nil {
		return err
	}
	return renderErr
}
