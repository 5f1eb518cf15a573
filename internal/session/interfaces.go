package session

import (
	"context"

	"github.com/singingsandhill/calendar/internal/calendar"
	"github.com/singingsandhill/calendar/internal/models"
)

// Coordinator defines the interface for schedule coordination operations
type Coordinator interface {
	Schedule() models.Schedule
	Geometry() calendar.Geometry
	Participants() []models.Participant
	ActiveParticipant() (*models.Participant, bool)
	SelectParticipant(participantID int) error
	DeselectParticipant()
	ToggleDay(day int) error
	ResetSelections() error
	SelectedDays() []int
	IsDaySelected(day int) bool
	HasUnsavedChanges() bool
	SaveSelections(ctx context.Context) (*models.Participant, error)
	AddParticipant(ctx context.Context, name string) (*models.Participant, error)
	RemoveParticipant(ctx context.Context, participantID int) error
	ToggleVote(ctx context.Context, kind models.OptionKind, optionID int) (*models.Option, error)
	Locations() *Tally
	Menus() *Tally
	CalendarView() CalendarView
	PollView(kind models.OptionKind) PollView
}

// Tallier defines the interface for poll tally operations
type Tallier interface {
	Kind() models.OptionKind
	AddOption(ctx context.Context, name, optionURL string) (*models.Option, error)
	RemoveOption(ctx context.Context, optionID int) error
	ToggleVote(ctx context.Context, optionID int, voterName string) (*models.Option, error)
	Option(optionID int) (*models.Option, bool)
	Options() []models.Option
	Leaders() []models.Option
}

// Ensure concrete types implement interfaces
var (
	_ Coordinator = (*Session)(nil)
	_ Tallier     = (*Tally)(nil)
)
