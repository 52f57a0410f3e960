package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/nextrun/internal/config"
	"github.com/aatumaykin/nextrun/internal/constants"
	"github.com/aatumaykin/nextrun/internal/logger"
)

var configInitForce bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Validate and scaffold nextrun configuration.`,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file and check for errors.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger.NewWithWriter(logger.Config{Level: "info", Format: "text"}, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		path := configPath
		if len(args) > 0 {
			path = args[0]
		}

		log.Info("Validating configuration", logger.Field{Key: "path", Value: path})

		cfg, err := config.Load(path)
		if err != nil {
			log.Error("Failed to load config", err)
			return err
		}

		errs := cfg.Validate()
		if len(errs) > 0 {
			log.Error("Config validation failed", fmt.Errorf("%d errors", len(errs)))
			for _, e := range errs {
				log.Error("Validation error", e)
			}
			return fmt.Errorf("%d configuration errors", len(errs))
		}

		fmt.Fprintln(cmd.OutOrStdout(), constants.MsgConfigValid)
		return nil
	},
}

// configInitCmd writes a config file populated with defaults.
var configInitCmd = &cobra.Command{
	Use:   "init [config-file]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) > 0 {
			path = args[0]
		}
		if err := config.Write(config.Default(), path, configInitForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), constants.MsgConfigWritten, path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")

	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)
}
