package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aatumaykin/nextrun/internal/dashboard"
	"github.com/aatumaykin/nextrun/internal/schedule"
	"github.com/aatumaykin/nextrun/internal/urgency"
)

var (
	colorBorder = lipgloss.Color("240")
	colorHeader = lipgloss.Color("75")

	levelColors = map[urgency.Level]lipgloss.Color{
		urgency.Overdue:      lipgloss.Color("196"),
		urgency.Imminent:     lipgloss.Color("208"),
		urgency.DueSoon:      lipgloss.Color("220"),
		urgency.Scheduled:    lipgloss.Color("42"),
		urgency.NotScheduled: lipgloss.Color("245"),
	}

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHeader).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable draws a bordered table. colorAt may tint individual cells.
func renderTable(headers []string, rows [][]string, colorAt func(row, col int) (lipgloss.Color, bool)) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if colorAt != nil {
				if color, ok := colorAt(row, col); ok {
					return cellStyle.Foreground(color)
				}
			}
			return cellStyle
		}).
		String()
}

// renderRows draws resolved rows with the urgency column coloured by level.
func renderRows(rows []dashboard.Row) string {
	const urgencyCol = 4
	cells := make([][]string, len(rows))
	for i, row := range rows {
		next := "-"
		if row.NextRunAt != nil {
			next = row.NextRunAt.Format(time.RFC3339)
		}
		cells[i] = []string{row.ID, string(row.Kind), yesNo(row.IsActive), next, row.Urgency.Text, row.Error}
	}
	return renderTable(
		[]string{"ID", "KIND", "ACTIVE", "NEXT RUN", "URGENCY", "ERROR"},
		cells,
		func(row, col int) (lipgloss.Color, bool) {
			if col != urgencyCol || row < 0 || row >= len(rows) {
				return "", false
			}
			color, ok := levelColors[rows[row].Urgency.Level]
			return color, ok
		})
}

// renderDefinitions draws stored definitions without resolving them.
func renderDefinitions(defs []schedule.Definition) string {
	cells := make([][]string, len(defs))
	for i, def := range defs {
		cells[i] = []string{def.ID, string(def.Kind), yesNo(def.IsActive), ruleSummary(def), timezoneOf(def)}
	}
	return renderTable([]string{"ID", "KIND", "ACTIVE", "RULE", "TIMEZONE"}, cells, nil)
}

func ruleSummary(def schedule.Definition) string {
	if def.Kind == schedule.KindCron || def.Calendar == nil {
		return def.CronExpression
	}

	c := def.Calendar
	slots := make([]string, 0, len(c.TimeSlots))
	for _, s := range c.SortedTimeSlots() {
		slots = append(slots, s.String())
	}

	var days []string
	switch c.Frequency {
	case schedule.FrequencyWeekly:
		for _, d := range c.WeeklyDays {
			days = append(days, d.String())
		}
	case schedule.FrequencyMonthly:
		for _, d := range c.MonthlyDays {
			days = append(days, strconv.Itoa(d))
		}
	case schedule.FrequencyYearly:
		for _, d := range c.YearlyDates {
			days = append(days, d.String())
		}
	}
	return string(c.Frequency) + " " + strings.Join(days, ",") + " @ " + strings.Join(slots, ",")
}

func timezoneOf(def schedule.Definition) string {
	tz := def.Timezone
	if def.Calendar != nil {
		tz = def.Calendar.Timezone
	}
	if tz == "" {
		return "UTC"
	}
	return tz
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
