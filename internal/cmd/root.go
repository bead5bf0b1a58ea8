package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/Iron-Ham/proclog/internal/config"
	"github.com/Iron-Ham/proclog/internal/logging"
	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "proclog",
	Short: "Write and read per-run process log files",
	Long: `proclog writes leveled entries to a per-run log file in the system
temporary directory and reads those files back.

Each run of a program gets its own file named
{program}_{yyyyMMddHHmmss}.log, holding one line per entry:

  2026-10-19 14:03:07,[WARNING],CheckDisk,low space`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var verbose bool

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/proclog/config.yaml)")
	rootCmd.PersistentFlags().String("dir", "", "log directory (default is the system temp directory)")
	rootCmd.PersistentFlags().String("name", "", "program name used as the log file prefix (default is this binary's name)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic messages to stderr")
	bindRootFlags()
}

// bindRootFlags binds the global flags to their viper keys.
func bindRootFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("logging.name", rootCmd.PersistentFlags().Lookup("name"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PROCLOG")
	// Replace dots with underscores for nested keys in env vars
	// e.g., PROCLOG_LOGGING_DIR for logging.dir
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// cliLogger returns the logger for proclog's own status messages. They go to
// the command's stderr so stdout stays parseable.
func cliLogger(cmd *cobra.Command) *clog.Logger {
	logger := clog.NewWithOptions(cmd.ErrOrStderr(), clog.Options{
		Prefix: "proclog",
	})
	if verbose {
		logger.SetLevel(clog.DebugLevel)
	}
	return logger
}

// logTarget returns the log directory and program name from the loaded
// configuration, falling back to this binary's build metadata for the name.
func logTarget(cfg *config.Config) (dir, name string, err error) {
	dir = cfg.Logging.ResolveDir()
	name = cfg.Logging.Name
	if name == "" {
		name, _, err = logging.ProgramMetadata()
		if err != nil {
			return "", "", fmt.Errorf("cannot determine program name (set --name or logging.name): %w", err)
		}
	}
	return dir, name, nil
}

// resolveLogfile returns args[0] when given, otherwise the newest run log
// for the configured program.
func resolveLogfile(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	dir, name, err := logTarget(cfg)
	if err != nil {
		return "", err
	}
	return logging.LatestLogfile(dir, name)
}
