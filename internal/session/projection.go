package session

import (
	"github.com/singingsandhill/calendar/internal/calendar"
	"github.com/singingsandhill/calendar/internal/models"
)

// daysPerWeek is the grid row width
const daysPerWeek = 7

// Dot marks one participant's selection on a day cell
type Dot struct {
	ParticipantID int
	Name          string
	Color         string
}

// DayCell is one rendered calendar cell. Leading placeholder cells in a
// legacy grid have Empty set and carry no date.
type DayCell struct {
	Index      int // day-index within the schedule's scheme, 0 when Empty
	Day        int // day of month shown in the cell, 0 when Empty
	Year       int
	Month      int
	Empty      bool
	OtherMonth bool
	Today      bool
	Past       bool
	Selected   bool // in the active participant's edit buffer
	Dots       []Dot
}

// CalendarView is the month grid ready to render: whole weeks of seven
// cells, with per-day selection dots for every participant
type CalendarView struct {
	Year  int
	Month int
	Mode  models.IndexingMode
	Weeks [][]DayCell
}

// OptionRow is one rendered poll option
type OptionRow struct {
	ID            int
	Name          string
	URL           string
	VoteCount     int
	Voters        []string
	VotedByActive bool
	Leading       bool // tied at the highest vote count
}

// PollView is one poll domain ready to render
type PollView struct {
	Kind models.OptionKind
	Rows []OptionRow
}

// CalendarView projects the current session state onto the month grid
func (s *Session) CalendarView() CalendarView {
	geo := s.geo
	cells := make([]DayCell, 0, geo.LeadingEmptyCells()+geo.TotalDays())

	for i := 0; i < geo.LeadingEmptyCells(); i++ {
		cells = append(cells, DayCell{Empty: true})
	}

	for _, idx := range geo.DayIndices() {
		cell, ok := geo.Cell(idx)
		if !ok {
			continue
		}
		cells = append(cells, DayCell{
			Index:      idx,
			Day:        cell.Day,
			Year:       cell.Year,
			Month:      cell.Month,
			OtherMonth: cell.OtherMonth,
			Today:      calendar.IsToday(cell.Year, cell.Month, cell.Day),
			Past:       calendar.IsPastDate(cell.Year, cell.Month, cell.Day),
			Selected:   s.activeID != noParticipant && s.buffer.Contains(idx),
			Dots:       s.dotsFor(idx),
		})
	}

	for len(cells)%daysPerWeek != 0 {
		cells = append(cells, DayCell{Empty: true})
	}

	weeks := make([][]DayCell, 0, len(cells)/daysPerWeek)
	for i := 0; i < len(cells); i += daysPerWeek {
		weeks = append(weeks, cells[i:i+daysPerWeek])
	}

	return CalendarView{
		Year:  s.schedule.Year,
		Month: s.schedule.Month,
		Mode:  s.schedule.IndexingMode(),
		Weeks: weeks,
	}
}

// PollView projects one poll domain, marking the rows the active
// participant has voted on and the rows tied for the lead
func (s *Session) PollView(kind models.OptionKind) PollView {
	tally := s.Tally(kind)
	active, hasActive := s.ActiveParticipant()

	leading := map[int]bool{}
	for _, leader := range tally.Leaders() {
		leading[leader.ID] = true
	}

	options := tally.Options()
	rows := make([]OptionRow, 0, len(options))
	for _, o := range options {
		rows = append(rows, OptionRow{
			ID:            o.ID,
			Name:          o.Name,
			URL:           o.URL,
			VoteCount:     o.VoteCount,
			Voters:        o.Voters,
			VotedByActive: hasActive && o.HasVoted(active.Name),
			Leading:       leading[o.ID],
		})
	}

	return PollView{Kind: kind, Rows: rows}
}

// dotsFor collects the selection dots for one day-index, in roster order
func (s *Session) dotsFor(idx int) []Dot {
	var dots []Dot
	for i := range s.participants {
		p := &s.participants[i]
		for _, day := range p.Selections {
			if day == idx {
				dots = append(dots, Dot{ParticipantID: p.ID, Name: p.Name, Color: p.Color})
				break
			}
		}
	}
	return dots
}
