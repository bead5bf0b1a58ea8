package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Iron-Ham/proclog/internal/config"
	"github.com/Iron-Ham/proclog/internal/logging"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List the run logs of a program",
	Long: `List the log files written by runs of the configured program, oldest
first, with their start time and size.`,
	Args: cobra.NoArgs,
	RunE: runLs,
}

var lsQuiet bool

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().BoolVarP(&lsQuiet, "quiet", "q", false, "Only print file paths")
}

func runLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dir, name, err := logTarget(cfg)
	if err != nil {
		return err
	}

	paths, err := logging.FindLogfiles(dir, name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(paths) == 0 {
		if !lsQuiet {
			fmt.Fprintf(out, "No log files for %q in %s\n", name, dir)
		}
		return nil
	}

	if lsQuiet {
		for _, p := range paths {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSIZE\tPATH")
	for _, p := range paths {
		fmt.Fprintf(w, "%s\t%s\t%s\n", runStart(p, name), fileSize(p), p)
	}
	return w.Flush()
}

// runStart recovers the start time encoded in a log file name.
func runStart(path, name string) string {
	stamp := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), name+"_"), ".log")
	at, err := time.ParseInLocation(logging.FileTimestampLayout, stamp, time.Local)
	if err != nil {
		return "-"
	}
	return at.Format(logging.EntryTimeLayout)
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%dB", info.Size())
}
