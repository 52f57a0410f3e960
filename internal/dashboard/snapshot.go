package dashboard

import (
	"cmp"
	"slices"
	"time"

	"github.com/aatumaykin/nextrun/internal/schedule"
	"github.com/aatumaykin/nextrun/internal/urgency"
)

// LevelOrder is the display order of urgency levels, most urgent first.
var LevelOrder = []urgency.Level{
	urgency.Overdue,
	urgency.Imminent,
	urgency.DueSoon,
	urgency.Scheduled,
	urgency.NotScheduled,
}

// Row is one definition's resolved state.
type Row struct {
	ID              string                 `json:"id"`
	Kind            schedule.Kind          `json:"kind"`
	IsActive        bool                   `json:"isActive"`
	NextRunAt       *time.Time             `json:"nextRunAt,omitempty"`
	SearchExhausted bool                   `json:"searchExhausted"`
	Urgency         urgency.Classification `json:"urgency"`
	Error           string                 `json:"error,omitempty"`
}

// Snapshot is the outcome of one refresh.
type Snapshot struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	AsOf        schedule.Date `json:"asOf"`
	Rows        []Row         `json:"schedules"`
}

// Counts tallies rows per urgency level.
func (s Snapshot) Counts() map[urgency.Level]int {
	counts := make(map[urgency.Level]int, len(LevelOrder))
	for _, row := range s.Rows {
		counts[row.Urgency.Level]++
	}
	return counts
}

// NewRow builds the row for one resolution. A non-nil err marks the
// definition as invalid and leaves it unscheduled.
func NewRow(def schedule.Definition, result schedule.Result, err error, f urgency.Formatter, now time.Time) Row {
	row := Row{ID: def.ID, Kind: def.Kind, IsActive: def.IsActive}
	if err != nil {
		row.Error = err.Error()
		row.Urgency = urgency.Classification{Level: urgency.NotScheduled, Text: urgency.TextNotScheduled}
		return row
	}

	if result.NextRunAt != nil {
		local := *result.NextRunAt
		row.NextRunAt = &local
	}
	row.SearchExhausted = result.SearchExhausted
	row.Urgency = f.ClassifyResult(result, now)
	return row
}

// SortRows orders rows by urgency level, then next run, then ID.
func SortRows(rows []Row) {
	rank := make(map[urgency.Level]int, len(LevelOrder))
	for i, level := range LevelOrder {
		rank[level] = i
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		if c := cmp.Compare(rank[a.Urgency.Level], rank[b.Urgency.Level]); c != 0 {
			return c
		}
		if a.NextRunAt != nil && b.NextRunAt != nil {
			if c := a.NextRunAt.Compare(*b.NextRunAt); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
