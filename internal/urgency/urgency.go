// Package urgency classifies how soon a scheduled run is due and renders a
// short human-readable description for dashboards.
package urgency

import (
	"fmt"
	"time"

	"github.com/aatumaykin/nextrun/internal/schedule"
)

// Level is the urgency bucket of a run.
type Level string

const (
	Overdue      Level = "overdue"
	Imminent     Level = "imminent"
	DueSoon      Level = "due_soon"
	Scheduled    Level = "scheduled"
	NotScheduled Level = "not_scheduled"
)

// Bucket boundaries. Each bucket includes its lower bound.
const (
	ImminentWindow = time.Hour
	DueSoonWindow  = 24 * time.Hour
)

// Texts for the fixed buckets.
const (
	TextNotScheduled   = "Not scheduled"
	TextOverdue        = "Overdue"
	TextNoUpcomingRuns = "No upcoming runs"
)

// Classification is a derived urgency bucket plus its display text.
type Classification struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Classify buckets next relative to now using the default formatter.
func Classify(next *time.Time, now time.Time) Classification {
	return DefaultFormatter.Classify(next, now)
}

// ClassifyResult classifies a resolution result. An exhausted search is
// reported as not scheduled with "No upcoming runs".
func ClassifyResult(result schedule.Result, now time.Time) Classification {
	return DefaultFormatter.ClassifyResult(result, now)
}

// Classify buckets next relative to now.
func (f Formatter) Classify(next *time.Time, now time.Time) Classification {
	if next == nil {
		return Classification{Level: NotScheduled, Text: TextNotScheduled}
	}
	if next.Before(now) {
		return Classification{Level: Overdue, Text: TextOverdue}
	}

	delta := next.Sub(now)
	switch {
	case delta < ImminentWindow:
		return Classification{Level: Imminent, Text: fmt.Sprintf("In %dm", int(delta/time.Minute))}
	case delta < DueSoonWindow:
		hours := int(delta / time.Hour)
		minutes := int((delta % time.Hour) / time.Minute)
		return Classification{Level: DueSoon, Text: fmt.Sprintf("In %dh %dm", hours, minutes)}
	default:
		return Classification{Level: Scheduled, Text: f.Absolute(*next)}
	}
}

// ClassifyResult is the Formatter form of the package-level ClassifyResult.
func (f Formatter) ClassifyResult(result schedule.Result, now time.Time) Classification {
	if result.SearchExhausted {
		return Classification{Level: NotScheduled, Text: TextNoUpcomingRuns}
	}
	return f.Classify(result.NextRunAt, now)
}
