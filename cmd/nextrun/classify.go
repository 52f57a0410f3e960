package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/nextrun/internal/urgency"
)

var classifyNow string

// classifyCmd buckets a single instant.
var classifyCmd = &cobra.Command{
	Use:   "classify <instant>",
	Short: "Classify how urgent a run at the given instant is",
	Long: `Print the urgency level and display text of a run at <instant>
relative to now (or --now). Instants without an offset are read in
engine.default_timezone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		loc, err := cfg.Engine.Location()
		if err != nil {
			return err
		}

		next, err := parseInstant(args[0], loc, clock)
		if err != nil {
			return err
		}
		now, err := parseInstant(classifyNow, loc, clock)
		if err != nil {
			return err
		}

		c := urgency.NewFormatter(cfg.Engine.Locale).Classify(&next, now)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Level, c.Text)
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyNow, "now", "", "reference instant (default now)")
}
