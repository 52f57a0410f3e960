package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/nextrun/internal/constants"
	"github.com/aatumaykin/nextrun/internal/resolver"
	"github.com/aatumaykin/nextrun/internal/urgency"
)

// clock is replaced in tests.
var clock = time.Now

var (
	nextTimezone string
	nextFrom     string
	nextCount    int
	nextExclude  []string
)

// nextCmd resolves an ad-hoc cron expression.
var nextCmd = &cobra.Command{
	Use:   "next <cron-expression>",
	Short: "Show the next runs of a cron expression",
	Long: `Resolve the next runs of a five-field cron expression
(minute hour day-of-month month day-of-week).

Examples:
  nextrun next "0 9 * * 1-5" --tz Europe/Berlin
  nextrun next "30 4 1,15 * 5" -n 5 --from 2024-03-01T05:00:00Z
  nextrun next "0 0 * * *" --exclude 2024-12-25 --exclude 2025-01-01`,
	Args: cobra.ExactArgs(1),
	RunE: runNext,
}

func init() {
	nextCmd.Flags().StringVar(&nextTimezone, "tz", "", "IANA timezone (default engine.default_timezone)")
	nextCmd.Flags().StringVar(&nextFrom, "from", "", "reference instant (default now)")
	nextCmd.Flags().IntVarP(&nextCount, "count", "n", 1, "number of runs to show")
	nextCmd.Flags().StringSliceVar(&nextExclude, "exclude", nil, "exclusion date YYYY-MM-DD (repeatable)")
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if nextCount < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", nextCount)
	}

	tz := nextTimezone
	if tz == "" {
		tz = cfg.Engine.DefaultTimezone
	}
	loc, err := loadLocation(tz, time.UTC)
	if err != nil {
		return err
	}
	from, err := parseInstant(nextFrom, loc, clock)
	if err != nil {
		return err
	}
	exclusions, err := parseDates(nextExclude)
	if err != nil {
		return err
	}

	def, err := resolver.NewCronDefinition("cli", args[0], tz, true, exclusions...)
	if err != nil {
		return err
	}
	runs, exhausted, err := resolver.Upcoming(def, from, nextCount)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, constants.MsgNoRuns)
		return nil
	}

	formatter := urgency.NewFormatter(cfg.Engine.Locale)
	for _, run := range runs {
		c := formatter.Classify(&run, from)
		fmt.Fprintf(out, "%s  %s\n", run.Format(time.RFC3339), c.Text)
	}
	if exhausted {
		fmt.Fprintf(out, constants.MsgExhaustedWarning, len(runs))
	}
	return nil
}
