package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/nextrun/internal/config"
	"github.com/aatumaykin/nextrun/internal/constants"
	"github.com/aatumaykin/nextrun/internal/logger"
)

var (
	configPath string
	envPath    string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nextrun",
	Short: "nextrun - recurring schedule resolution",
	Long: `nextrun computes the next run of cron and calendar schedules,
classifies how urgent each run is and serves a live dashboard of stored
schedule definitions.`,
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", constants.DefaultConfigPath, "path to config file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", constants.DefaultEnvPath, "path to .env file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(asofCmd)
	rootCmd.AddCommand(schedulesCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads .env and the config file. A missing file at the default
// path falls back to built-in defaults; an explicitly given one must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnvOptional(envPath); err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			fmt.Fprintf(cmd.ErrOrStderr(), constants.MsgConfigLoadError, err)
			return nil, err
		}
		cfg = config.Default()
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), constants.MsgConfigValidationError)
		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), constants.MsgConfigValidatePrefix, e)
		}
		return nil, fmt.Errorf("%d configuration errors", len(errs))
	}
	return cfg, nil
}

// commandLogger logs to stderr so it never mixes with command output.
func commandLogger(cfg *config.Config) (*logger.Logger, error) {
	lc := cfg.Logging.LoggerConfig()
	if lc.Output == "stdout" {
		lc.Output = "stderr"
	}
	log, err := logger.New(lc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return nil, err
	}
	return log, nil
}
