package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/nextrun/internal/businessday"
	"github.com/aatumaykin/nextrun/internal/constants"
)

var (
	asofNow      string
	asofTimezone string
)

// asofCmd prints the default as-of date.
var asofCmd = &cobra.Command{
	Use:   "asof",
	Short: "Print the previous business day",
	Long: `Print the default as-of date: the most recent weekday strictly before
today in engine.default_timezone (or --tz), also skipping engine.holidays.
Holidays that cover a whole year are ignored with a warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		fallback, err := cfg.Engine.Location()
		if err != nil {
			return err
		}
		loc, err := loadLocation(asofTimezone, fallback)
		if err != nil {
			return err
		}
		holidays, err := cfg.Engine.HolidaySet()
		if err != nil {
			return err
		}
		now, err := parseInstant(asofNow, loc, clock)
		if err != nil {
			return err
		}

		d, ok := businessday.AsOfExcluding(now, loc, holidays)
		if !ok {
			fmt.Fprint(cmd.ErrOrStderr(), constants.MsgHolidaysIgnored)
		}
		fmt.Fprintln(cmd.OutOrStdout(), d.String())
		return nil
	},
}

func init() {
	asofCmd.Flags().StringVar(&asofNow, "now", "", "reference instant (default now)")
	asofCmd.Flags().StringVar(&asofTimezone, "tz", "", "IANA timezone (default engine.default_timezone)")
}
