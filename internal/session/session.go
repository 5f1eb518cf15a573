package session

import (
	"context"
	"strings"

	"github.com/singingsandhill/calendar/internal/calendar"
	"github.com/singingsandhill/calendar/internal/logger"
	"github.com/singingsandhill/calendar/internal/models"
	"github.com/singingsandhill/calendar/pkg/scheduleapi"
)

// noParticipant is the sentinel active-participant id meaning nobody is
// selected
const noParticipant = 0

// Session is the coordination state for one loaded schedule: the
// participant roster, the active participant's selection edit buffer, and
// the two poll tallies. Day edits accumulate locally and are pushed with
// SaveSelections; participant and vote mutations go to the remote
// authority immediately and apply its echoed state.
//
// Session is not safe for concurrent use. Callers drive it from a single
// goroutine, the same way a page drives its state from the event loop.
type Session struct {
	log          logger.Logger
	client       scheduleapi.Client
	schedule     models.Schedule
	geo          calendar.Geometry
	participants []models.Participant
	activeID     int
	buffer       *SelectionSet
	locations    *Tally
	menus        *Tally
}

// New builds a session from a fetched schedule detail
func New(log logger.Logger, client scheduleapi.Client, detail *scheduleapi.ScheduleDetail) *Session {
	geo := calendar.ForSchedule(&detail.Schedule)
	return &Session{
		log:          log,
		client:       client,
		schedule:     detail.Schedule,
		geo:          geo,
		participants: append([]models.Participant(nil), detail.Participants...),
		activeID:     noParticipant,
		buffer:       NewSelectionSet(geo),
		locations:    NewTally(log, client, detail.Schedule.ID, models.KindLocation, detail.Locations),
		menus:        NewTally(log, client, detail.Schedule.ID, models.KindMenu, detail.Menus),
	}
}

// Load fetches a schedule and builds a session around it
func Load(ctx context.Context, log logger.Logger, client scheduleapi.Client, ownerID string, year, month int) (*Session, error) {
	detail, err := client.FetchSchedule(ctx, ownerID, year, month)
	if err != nil {
		return nil, err
	}
	log.Info("schedule loaded",
		"owner", detail.OwnerID,
		"year", detail.Year,
		"month", detail.Month,
		"mode", detail.IndexingMode().String(),
		"participants", len(detail.Participants))
	return New(log, client, detail), nil
}

// Schedule returns the loaded schedule
func (s *Session) Schedule() models.Schedule {
	return s.schedule
}

// Geometry returns the calendar geometry derived from the schedule
func (s *Session) Geometry() calendar.Geometry {
	return s.geo
}

// Participants returns a copy of the roster in server order
func (s *Session) Participants() []models.Participant {
	out := make([]models.Participant, len(s.participants))
	copy(out, s.participants)
	for i := range out {
		out[i].Selections = append([]int(nil), s.participants[i].Selections...)
	}
	return out
}

// ActiveParticipant returns the participant whose selections are being
// edited, or false when nobody is selected
func (s *Session) ActiveParticipant() (*models.Participant, bool) {
	p := s.findParticipant(s.activeID)
	if p == nil {
		return nil, false
	}
	copied := *p
	copied.Selections = append([]int(nil), p.Selections...)
	return &copied, true
}

// Locations returns the location poll tally
func (s *Session) Locations() *Tally {
	return s.locations
}

// Menus returns the menu poll tally
func (s *Session) Menus() *Tally {
	return s.menus
}

// Tally returns the tally for one poll domain
func (s *Session) Tally(kind models.OptionKind) *Tally {
	if kind == models.KindMenu {
		return s.menus
	}
	return s.locations
}

// SelectParticipant makes participantID the edit target and loads their
// committed selections into the buffer, discarding any unsaved edits from
// the previously active participant
func (s *Session) SelectParticipant(participantID int) error {
	p := s.findParticipant(participantID)
	if p == nil {
		return ErrUnknownParticipant
	}
	s.activeID = participantID
	s.buffer.Load(p.Selections)
	s.log.Debug("participant selected", "id", p.ID, "name", p.Name)
	return nil
}

// DeselectParticipant clears the edit target and the buffer. Unsaved edits
// are discarded.
func (s *Session) DeselectParticipant() {
	s.activeID = noParticipant
	s.buffer.Clear()
}

// ToggleDay flips one day in the active participant's edit buffer. The
// change is local until SaveSelections.
func (s *Session) ToggleDay(day int) error {
	if s.activeID == noParticipant {
		return ErrNoActiveParticipant
	}
	return s.buffer.Toggle(day)
}

// ResetSelections empties the active participant's edit buffer. The
// committed selections on the server are untouched until SaveSelections.
func (s *Session) ResetSelections() error {
	if s.activeID == noParticipant {
		return ErrNoActiveParticipant
	}
	s.buffer.Clear()
	return nil
}

// SelectedDays returns the buffer contents, sorted
func (s *Session) SelectedDays() []int {
	return s.buffer.Snapshot()
}

// IsDaySelected reports whether day is in the edit buffer
func (s *Session) IsDaySelected(day int) bool {
	return s.buffer.Contains(day)
}

// HasUnsavedChanges reports whether the buffer differs from the active
// participant's committed selections
func (s *Session) HasUnsavedChanges() bool {
	p := s.findParticipant(s.activeID)
	if p == nil {
		return false
	}
	if s.buffer.Len() != len(p.Selections) {
		return true
	}
	for _, day := range p.Selections {
		if !s.buffer.Contains(day) {
			return true
		}
	}
	return false
}

// SaveSelections pushes the edit buffer to the remote authority. On
// success the echoed participant replaces the roster entry and reloads the
// buffer, so the buffer and the committed baseline agree again. On failure
// the buffer keeps its unsaved edits.
func (s *Session) SaveSelections(ctx context.Context) (*models.Participant, error) {
	if s.activeID == noParticipant {
		return nil, ErrNoActiveParticipant
	}

	echoed, err := s.client.UpdateSelections(ctx, s.activeID, s.buffer.Snapshot())
	if err != nil {
		return nil, err
	}

	s.applyParticipant(echoed)
	s.buffer.Load(echoed.Selections)
	s.log.Info("selections saved", "participant", echoed.Name, "days", len(echoed.Selections))

	copied := *echoed
	copied.Selections = append([]int(nil), echoed.Selections...)
	return &copied, nil
}

// AddParticipant registers a new participant and refreshes the roster from
// the server, which assigns the id and the color
func (s *Session) AddParticipant(ctx context.Context, name string) (*models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	created, err := s.client.CreateParticipant(ctx, s.schedule.ID, name)
	if err != nil {
		return nil, err
	}
	if err := s.refreshParticipants(ctx); err != nil {
		return nil, err
	}
	s.log.Info("participant added", "id", created.ID, "name", created.Name)
	return created, nil
}

// RemoveParticipant deletes a participant and refreshes the roster. When
// the removed participant was the edit target, the session deselects.
func (s *Session) RemoveParticipant(ctx context.Context, participantID int) error {
	if err := s.client.DeleteParticipant(ctx, participantID); err != nil {
		return err
	}
	if participantID == s.activeID {
		s.DeselectParticipant()
	}
	if err := s.refreshParticipants(ctx); err != nil {
		return err
	}
	s.log.Info("participant removed", "id", participantID)
	return nil
}

// ToggleVote votes or unvotes the given option on behalf of the active
// participant
func (s *Session) ToggleVote(ctx context.Context, kind models.OptionKind, optionID int) (*models.Option, error) {
	p := s.findParticipant(s.activeID)
	if p == nil {
		return nil, ErrNoActiveParticipant
	}
	return s.Tally(kind).ToggleVote(ctx, optionID, p.Name)
}

func (s *Session) refreshParticipants(ctx context.Context) error {
	participants, err := s.client.ListParticipants(ctx, s.schedule.ID)
	if err != nil {
		return err
	}
	s.participants = participants
	if s.activeID != noParticipant && s.findParticipant(s.activeID) == nil {
		s.DeselectParticipant()
	}
	return nil
}

func (s *Session) findParticipant(participantID int) *models.Participant {
	if participantID == noParticipant {
		return nil
	}
	for i := range s.participants {
		if s.participants[i].ID == participantID {
			return &s.participants[i]
		}
	}
	return nil
}

func (s *Session) applyParticipant(p *models.Participant) {
	for i := range s.participants {
		if s.participants[i].ID == p.ID {
			updated := *p
			updated.Selections = append([]int(nil), p.Selections...)
			s.participants[i] = updated
			return
		}
	}
}
