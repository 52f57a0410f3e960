package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/nextrun/internal/config"
	"github.com/aatumaykin/nextrun/internal/dashboard"
	"github.com/aatumaykin/nextrun/internal/definitions"
	"github.com/aatumaykin/nextrun/internal/resolver"
	"github.com/aatumaykin/nextrun/internal/schedule"
	"github.com/aatumaykin/nextrun/internal/urgency"
)

var (
	resolveNow    string
	resolveOutput string
	resolveLevel  string
)

// resolveCmd resolves a YAML file of definitions or the configured store.
var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve the next run of every definition",
	Long: `Resolve the next run and urgency of every definition in a YAML/JSON
file, or of the stored definitions when no file is given. Rows are
ordered by urgency, most urgent first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := commandLogger(cfg)
		if err != nil {
			return err
		}

		var defs []schedule.Definition
		if len(args) > 0 {
			defs, err = definitions.ReadFile(args[0])
		} else {
			defs, err = definitions.NewStore(cfg.Storage.FilePath(), log).Load()
		}
		if err != nil {
			return err
		}

		loc, err := cfg.Engine.Location()
		if err != nil {
			return err
		}
		now, err := parseInstant(resolveNow, loc, clock)
		if err != nil {
			return err
		}

		rows := resolveRows(cfg, resolver.New(resolver.WithLogger(log)), defs, now)
		if resolveLevel != "" {
			rows = filterLevel(rows, urgency.Level(resolveLevel))
		}
		return writeRows(cmd, rows)
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveNow, "now", "", "reference instant (default now)")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "table", "output format: table or json")
	resolveCmd.Flags().StringVar(&resolveLevel, "level", "", "only show rows of this urgency level")
}

func resolveRows(cfg *config.Config, engine *resolver.Engine, defs []schedule.Definition, now time.Time) []dashboard.Row {
	formatter := urgency.NewFormatter(cfg.Engine.Locale)
	rows := make([]dashboard.Row, len(defs))
	for i, def := range defs {
		result, err := engine.ResolveNextRun(def, now)
		rows[i] = dashboard.NewRow(def, result, err, formatter, now)
	}
	dashboard.SortRows(rows)
	return rows
}

func filterLevel(rows []dashboard.Row, level urgency.Level) []dashboard.Row {
	filtered := rows[:0]
	for _, row := range rows {
		if row.Urgency.Level == level {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func writeRows(cmd *cobra.Command, rows []dashboard.Row) error {
	out := cmd.OutOrStdout()
	switch resolveOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if rows == nil {
			rows = []dashboard.Row{}
		}
		return enc.Encode(rows)
	case "table":
		fmt.Fprintln(out, renderRows(rows))
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected: table, json)", resolveOutput)
	}
}

