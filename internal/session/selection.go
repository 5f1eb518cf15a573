package session

import (
	"sort"

	"github.com/singingsandhill/calendar/internal/calendar"
	apperrors "github.com/singingsandhill/calendar/internal/errors"
)

// SelectionSet is one participant's in-progress availability edit buffer:
// a set of day-indices distinct from the committed baseline until a save
// succeeds. Day-indices are validated against the schedule's geometry.
type SelectionSet struct {
	geo  calendar.Geometry
	days map[int]struct{}
}

// NewSelectionSet creates an empty edit buffer for the given geometry
func NewSelectionSet(geo calendar.Geometry) *SelectionSet {
	return &SelectionSet{
		geo:  geo,
		days: make(map[int]struct{}),
	}
}

// Load replaces the buffer with a committed baseline. Indices outside the
// geometry are dropped; the server is trusted not to send any.
func (s *SelectionSet) Load(baseline []int) {
	s.days = make(map[int]struct{}, len(baseline))
	for _, d := range baseline {
		if s.geo.Contains(d) {
			s.days[d] = struct{}{}
		}
	}
}

// Toggle adds day if absent and removes it if present. Toggling the same
// day twice returns the buffer to its prior state.
func (s *SelectionSet) Toggle(day int) error {
	if !s.geo.Contains(day) {
		return apperrors.Preconditionf("day %d is outside the calendar grid", day)
	}
	if _, ok := s.days[day]; ok {
		delete(s.days, day)
	} else {
		s.days[day] = struct{}{}
	}
	return nil
}

// Contains reports whether day is currently in the buffer
func (s *SelectionSet) Contains(day int) bool {
	_, ok := s.days[day]
	return ok
}

// Len returns the number of selected days
func (s *SelectionSet) Len() int {
	return len(s.days)
}

// Clear empties the buffer
func (s *SelectionSet) Clear() {
	s.days = make(map[int]struct{})
}

// Snapshot returns a sorted copy of the buffer for transmission
func (s *SelectionSet) Snapshot() []int {
	out := make([]int, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
