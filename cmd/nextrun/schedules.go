package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/nextrun/internal/config"
	"github.com/aatumaykin/nextrun/internal/constants"
	"github.com/aatumaykin/nextrun/internal/definitions"
)

// schedulesCmd manages the definition store.
var schedulesCmd = &cobra.Command{
	Use:     "schedules",
	Aliases: []string{"sched"},
	Short:   "Manage stored schedule definitions",
	Long:    `List, import and remove the definitions tracked by the dashboard.`,
}

var schedulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored definitions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defs, err := store.Load()
		if err != nil {
			return err
		}
		if len(defs) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), constants.MsgEmptyStore, store.Path())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderDefinitions(defs))
		return nil
	},
}

var schedulesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import definitions from a YAML or JSON file",
	Long: `Validate every definition in <file> and upsert them by ID. Nothing
is written when any definition is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defs, err := definitions.ReadFile(args[0])
		if err != nil {
			return err
		}
		replaced, err := store.Upsert(defs...)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), constants.MsgImported, len(defs), replaced)
		return nil
	},
}

var schedulesRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a stored definition",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		if err := store.Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), constants.MsgRemoved, args[0])
		return nil
	},
}

func init() {
	schedulesCmd.AddCommand(schedulesListCmd)
	schedulesCmd.AddCommand(schedulesImportCmd)
	schedulesCmd.AddCommand(schedulesRemoveCmd)
}

func openStore(cmd *cobra.Command) (*definitions.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storeFor(cfg)
}

func storeFor(cfg *config.Config) (*definitions.Store, error) {
	log, err := commandLogger(cfg)
	if err != nil {
		return nil, err
	}
	return definitions.NewStore(cfg.Storage.FilePath(), log), nil
}
