// Package calendar provides pure date arithmetic for rendering a month grid
// under the two day-indexing schemes a schedule can use.
package calendar

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/singingsandhill/calendar/internal/models"
)

// DaysInMonth returns the number of days in the given month.
// Month is 1..12; leap years are handled by calendar arithmetic.
func DaysInMonth(year, month int) int {
	// day 0 of the next month is the last day of this month
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of day 1 of the month, 0 = Sunday.
func FirstWeekday(year, month int) int {
	return int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// TotalGridDays returns the number of cells in a full multi-week grid for
// the month: always a whole number of weeks covering the leading offset and
// every day of the month.
func TotalGridDays(year, month int) int {
	days := DaysInMonth(year, month)
	first := FirstWeekday(year, month)
	weeks := (days + first + 6) / 7
	return weeks * 7
}

// IsToday reports whether the given date is today in local time.
func IsToday(year, month, day int) bool {
	return isToday(year, month, day, time.Now())
}

func isToday(year, month, day int, now time.Time) bool {
	return now.Year() == year && int(now.Month()) == month && now.Day() == day
}

// IsPastDate reports whether the given date is strictly before today in
// local time, at day granularity.
func IsPastDate(year, month, day int) bool {
	return isPastDate(year, month, day, time.Now())
}

func isPastDate(year, month, day int, now time.Time) bool {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	return date.Before(midnight)
}

// DateLabel renders a date as human-readable text, e.g. "February 9th".
func DateLabel(month, day int) string {
	return fmt.Sprintf("%s %s", time.Month(month), humanize.Ordinal(day))
}

// Cell describes the calendar position a day-index renders to.
type Cell struct {
	Index      int  // the day-index within the schedule's scheme
	Year       int  // calendar year of the rendered date
	Month      int  // calendar month of the rendered date
	Day        int  // day of month of the rendered date
	OtherMonth bool // the cell belongs to an adjacent month (extended only)
}

// Geometry maps day-indices to calendar cells for one schedule month.
// The two implementations correspond to the legacy and extended indexing
// schemes; a day-index is only meaningful relative to its geometry.
type Geometry interface {
	// Mode identifies the indexing scheme
	Mode() models.IndexingMode
	// LeadingEmptyCells returns how many placeholder cells precede day 1
	// in a rendered week grid (always zero for extended)
	LeadingEmptyCells() int
	// TotalDays returns the highest valid day-index
	TotalDays() int
	// Contains reports whether idx is a valid day-index
	Contains(idx int) bool
	// Cell resolves a day-index to its calendar position
	Cell(idx int) (Cell, bool)
	// DayIndices returns every valid day-index in render order
	DayIndices() []int
}

// NewGeometry builds the geometry for a schedule month. For extended mode,
// totalDays is the server-pinned grid span; pass 0 to use the natural
// whole-week span for the month.
func NewGeometry(mode models.IndexingMode, year, month, totalDays int) Geometry {
	if mode == models.Extended {
		if totalDays <= 0 {
			totalDays = TotalGridDays(year, month)
		}
		return &extendedGeometry{year: year, month: month, totalDays: totalDays}
	}
	return &legacyGeometry{year: year, month: month, days: DaysInMonth(year, month)}
}

// ForSchedule builds the geometry matching a schedule's own context.
func ForSchedule(s *models.Schedule) Geometry {
	return NewGeometry(s.IndexingMode(), s.Year, s.Month, s.TotalDays())
}

// legacyGeometry addresses only the literal month: 1..daysInMonth.
type legacyGeometry struct {
	year  int
	month int
	days  int
}

func (g *legacyGeometry) Mode() models.IndexingMode { return models.Legacy }

func (g *legacyGeometry) LeadingEmptyCells() int {
	return FirstWeekday(g.year, g.month)
}

func (g *legacyGeometry) TotalDays() int { return g.days }

func (g *legacyGeometry) Contains(idx int) bool {
	return idx >= 1 && idx <= g.days
}

func (g *legacyGeometry) Cell(idx int) (Cell, bool) {
	if !g.Contains(idx) {
		return Cell{}, false
	}
	return Cell{Index: idx, Year: g.year, Month: g.month, Day: idx}, true
}

func (g *legacyGeometry) DayIndices() []int {
	out := make([]int, g.days)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// extendedGeometry addresses a full grid starting before day 1 of the
// month: index 1 is the first rendered cell, which may fall in the
// previous month.
type extendedGeometry struct {
	year      int
	month     int
	totalDays int
}

func (g *extendedGeometry) Mode() models.IndexingMode { return models.Extended }

func (g *extendedGeometry) LeadingEmptyCells() int { return 0 }

func (g *extendedGeometry) TotalDays() int { return g.totalDays }

func (g *extendedGeometry) Contains(idx int) bool {
	return idx >= 1 && idx <= g.totalDays
}

func (g *extendedGeometry) Cell(idx int) (Cell, bool) {
	if !g.Contains(idx) {
		return Cell{}, false
	}
	offset := FirstWeekday(g.year, g.month)
	date := time.Date(g.year, time.Month(g.month), 1-offset+(idx-1), 0, 0, 0, 0, time.UTC)
	return Cell{
		Index:      idx,
		Year:       date.Year(),
		Month:      int(date.Month()),
		Day:        date.Day(),
		OtherMonth: int(date.Month()) != g.month || date.Year() != g.year,
	}, true
}

func (g *extendedGeometry) DayIndices() []int {
	out := make([]int, g.totalDays)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
