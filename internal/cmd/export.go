package cmd

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/proclog/internal/config"
	"github.com/Iron-Ham/proclog/internal/logging"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a run log as JSON, CSV, YAML or text",
	Long: `Export the entries of a run log in another format.

Without a file argument, exports the newest log for the configured program
name. The same filters as 'proclog logs' apply.

Examples:
  # JSON to stdout
  proclog export --format json

  # Errors only, as CSV into a file
  proclog export --level error --format csv -o errors.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
	exportLevel  string
	exportModule string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format ("+strings.Join(logging.ExportFormats(), ", ")+")")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	exportCmd.Flags().StringVar(&exportLevel, "level", "", "Filter by minimum level (info/warning/error)")
	exportCmd.Flags().StringVar(&exportModule, "module", "", "Filter by module name")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logPath, err := resolveLogfile(cfg, args)
	if err != nil {
		return err
	}

	filter := logging.EntryFilter{Module: exportModule}
	if exportLevel != "" {
		level, err := logging.ParseLevel(exportLevel)
		if err != nil {
			return err
		}
		filter.MinLevel = level
	}

	entries, err := logging.ReadEntries(logPath)
	if err != nil {
		return err
	}
	entries = logging.FilterEntries(entries, filter)

	if exportOutput == "" {
		return logging.WriteEntries(cmd.OutOrStdout(), entries, exportFormat)
	}

	if err := logging.ExportEntries(entries, exportOutput, exportFormat); err != nil {
		return err
	}
	cliLogger(cmd).Info("exported entries", "count", len(entries), "format", exportFormat, "path", exportOutput)
	return nil
}
