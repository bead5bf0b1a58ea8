package cmd

import (
	"fmt"

	"github.com/Iron-Ham/proclog/internal/logging"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the program name and version from build metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, version, err := logging.ProgramMetadata()
		if err != nil {
			return err
		}
		if version == "" {
			version = "(devel)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
