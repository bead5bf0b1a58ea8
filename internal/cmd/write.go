package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Iron-Ham/proclog/internal/config"
	"github.com/Iron-Ham/proclog/internal/logging"
	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write <message>...",
	Short: "Write one entry to a new run log",
	Long: `Start a new run log and write a single entry to it.

The message arguments are joined with spaces. The path of the new log file
is printed on success.

Examples:
  # Record an informational entry
  proclog write --module Probe disk ok

  # Record a warning under another program name
  proclog write --name backup --level warning --module CheckDisk low space

  # Record an error with its diagnostic line
  proclog write --error --module Run boom`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWrite,
}

var (
	writeLevel   string
	writeModule  string
	writeAsError bool
)

func init() {
	rootCmd.AddCommand(writeCmd)

	writeCmd.Flags().StringVarP(&writeLevel, "level", "l", "info", "Entry level (info/warning/error)")
	writeCmd.Flags().StringVarP(&writeModule, "module", "m", "", "Module name recorded with the entry (default: logging.module)")
	writeCmd.Flags().BoolVar(&writeAsError, "error", false, "Write the message as an error with its diagnostic line")
}

func runWrite(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(writeLevel)
	if err != nil {
		return err
	}

	module := writeModule
	if module == "" {
		module = cfg.Logging.Module
	}

	dir, name, err := logTarget(cfg)
	if err != nil {
		return err
	}

	logger, err := logging.NewLoggerAt(dir, name)
	if err != nil {
		return err
	}

	message := strings.Join(args, " ")
	if writeAsError {
		err = logger.Err(errors.New(message), module)
	} else {
		err = logger.Log(level, message, module)
	}
	if closeErr := logger.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	cliLogger(cmd).Debug("wrote entry", "path", logger.Path(), "module", module)
	fmt.Fprintln(cmd.OutOrStdout(), logger.Path())
	return nil
}
