package cmd

import (
	"fmt"
	"time"

	"github.com/Iron-Ham/proclog/internal/config"
	"github.com/Iron-Ham/proclog/internal/logging"
	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the log file path a run started now would use",
	Long: `Print the path of the log file that a run of the configured program
would create if it started now. Nothing is created.`,
	Args: cobra.NoArgs,
	RunE: runPath,
}

func init() {
	rootCmd.AddCommand(pathCmd)
}

func runPath(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dir, name, err := logTarget(cfg)
	if err != nil {
		return err
	}

	lf := logging.NewLogfileIn(dir, name, time.Now())
	fmt.Fprintln(cmd.OutOrStdout(), lf.Path)
	return nil
}
