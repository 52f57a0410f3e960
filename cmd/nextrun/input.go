package main

import (
	"fmt"
	"time"

	"github.com/aatumaykin/nextrun/internal/schedule"
)

// localLayouts are accepted for instants without an explicit offset.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseInstant reads an RFC 3339 instant, or a local date-time interpreted
// in loc. An empty string means now.
func parseInstant(s string, loc *time.Location, now func() time.Time) (time.Time, error) {
	if s == "" {
		return now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid instant %q: expected RFC 3339 or YYYY-MM-DD[ HH:MM]", s)
}

func parseDates(values []string) ([]schedule.Date, error) {
	dates := make([]schedule.Date, 0, len(values))
	for _, v := range values {
		d, err := schedule.ParseDate(v)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func loadLocation(name string, fallback *time.Location) (*time.Location, error) {
	if name == "" {
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
