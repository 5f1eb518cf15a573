package scheduleapi

import (
	"context"
	"sort"
	"strings"

	apperrors "github.com/singingsandhill/calendar/internal/errors"
	"github.com/singingsandhill/calendar/internal/models"
)

// MockClient is an in-memory schedule server for testing. It enforces the
// same constraints the real server does: duplicate participant names, the
// participant cap, and at most one vote per option per voter.
type MockClient struct {
	schedule     models.Schedule
	participants []models.Participant
	locations    []models.Option
	menus        []models.Option
	baseURL      string
	nextID       int

	fetchErr             error
	listParticipantsErr  error
	createParticipantErr error
	deleteParticipantErr error
	updateSelectionsErr  error
	addOptionErr         error
	removeOptionErr      error
	voteErr              error
	unvoteErr            error

	voteCalls              int
	unvoteCalls            int
	addOptionCalls         int
	createParticipantCalls int
	updateSelectionsCalls  int
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithSchedule sets the schedule context to serve
func WithSchedule(schedule models.Schedule) MockOption {
	return func(m *MockClient) {
		m.schedule = schedule
	}
}

// WithParticipants seeds the participant list
func WithParticipants(participants []models.Participant) MockOption {
	return func(m *MockClient) {
		m.participants = append([]models.Participant(nil), participants...)
	}
}

// WithLocations seeds the location poll options
func WithLocations(options []models.Option) MockOption {
	return func(m *MockClient) {
		m.locations = append([]models.Option(nil), options...)
	}
}

// WithMenus seeds the menu poll options
func WithMenus(options []models.Option) MockOption {
	return func(m *MockClient) {
		m.menus = append([]models.Option(nil), options...)
	}
}

// WithFetchError sets an error to return from FetchSchedule
func WithFetchError(err error) MockOption {
	return func(m *MockClient) {
		m.fetchErr = err
	}
}

// WithListParticipantsError sets an error to return from ListParticipants
func WithListParticipantsError(err error) MockOption {
	return func(m *MockClient) {
		m.listParticipantsErr = err
	}
}

// WithCreateParticipantError sets an error to return from CreateParticipant
func WithCreateParticipantError(err error) MockOption {
	return func(m *MockClient) {
		m.createParticipantErr = err
	}
}

// WithDeleteParticipantError sets an error to return from DeleteParticipant
func WithDeleteParticipantError(err error) MockOption {
	return func(m *MockClient) {
		m.deleteParticipantErr = err
	}
}

// WithUpdateSelectionsError sets an error to return from UpdateSelections
func WithUpdateSelectionsError(err error) MockOption {
	return func(m *MockClient) {
		m.updateSelectionsErr = err
	}
}

// WithAddOptionError sets an error to return from AddOption
func WithAddOptionError(err error) MockOption {
	return func(m *MockClient) {
		m.addOptionErr = err
	}
}

// WithRemoveOptionError sets an error to return from RemoveOption
func WithRemoveOptionError(err error) MockOption {
	return func(m *MockClient) {
		m.removeOptionErr = err
	}
}

// WithVoteError sets an error to return from Vote
func WithVoteError(err error) MockOption {
	return func(m *MockClient) {
		m.voteErr = err
	}
}

// WithUnvoteError sets an error to return from Unvote
func WithUnvoteError(err error) MockOption {
	return func(m *MockClient) {
		m.unvoteErr = err
	}
}

// WithBaseURL sets the base URL
func WithBaseURL(url string) MockOption {
	return func(m *MockClient) {
		m.baseURL = url
	}
}

// NewMockClient creates a new mock schedule server
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		schedule:     DefaultMockSchedule(),
		participants: DefaultMockParticipants(),
		locations:    DefaultMockLocations(),
		menus:        DefaultMockMenus(),
		baseURL:      "http://mock-schedule.local",
		nextID:       100, // above any seeded ids
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	return m.baseURL
}

// FetchSchedule returns the configured schedule with current participants
// and options
func (m *MockClient) FetchSchedule(ctx context.Context, ownerID string, year, month int) (*ScheduleDetail, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if ownerID != m.schedule.OwnerID || year != m.schedule.Year || month != m.schedule.Month {
		return nil, apperrors.Remote(apperrors.ErrNotFound, "SCHEDULE_NOT_FOUND", "Schedule not found")
	}
	detail := &ScheduleDetail{
		Schedule:     m.schedule,
		Participants: append([]models.Participant(nil), m.participants...),
		Locations:    append([]models.Option(nil), m.locations...),
		Menus:        append([]models.Option(nil), m.menus...),
	}
	return detail, nil
}

// ListParticipants returns the current participant list
func (m *MockClient) ListParticipants(ctx context.Context, scheduleID int) ([]models.Participant, error) {
	if m.listParticipantsErr != nil {
		return nil, m.listParticipantsErr
	}
	return append([]models.Participant(nil), m.participants...), nil
}

// CreateParticipant registers a participant, enforcing the server's
// duplicate-name and participant-cap constraints
func (m *MockClient) CreateParticipant(ctx context.Context, scheduleID int, name string) (*models.Participant, error) {
	m.createParticipantCalls++
	if m.createParticipantErr != nil {
		return nil, m.createParticipantErr
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Remote(apperrors.ErrValidation, "VALIDATION_ERROR", "name: must not be blank")
	}
	for _, p := range m.participants {
		if strings.EqualFold(p.Name, name) {
			return nil, apperrors.Remote(apperrors.ErrConflict, "DUPLICATE_PARTICIPANT", "Participant already exists: "+name)
		}
	}
	if len(m.participants) >= models.MaxParticipants {
		return nil, apperrors.Remote(apperrors.ErrLimitExceeded, "PARTICIPANT_LIMIT_EXCEEDED", "Maximum number of participants (8) reached")
	}

	m.nextID++
	participant := models.Participant{
		ID:         m.nextID,
		Name:       name,
		Color:      models.ColorForIndex(len(m.participants)),
		Selections: []int{},
	}
	m.participants = append(m.participants, participant)
	copied := participant
	return &copied, nil
}

// DeleteParticipant removes a participant
func (m *MockClient) DeleteParticipant(ctx context.Context, participantID int) error {
	if m.deleteParticipantErr != nil {
		return m.deleteParticipantErr
	}
	for i, p := range m.participants {
		if p.ID == participantID {
			m.participants = append(m.participants[:i], m.participants[i+1:]...)
			return nil
		}
	}
	return apperrors.Remote(apperrors.ErrNotFound, "PARTICIPANT_NOT_FOUND", "Participant not found")
}

// UpdateSelections commits a day-index set and echoes the committed value
func (m *MockClient) UpdateSelections(ctx context.Context, participantID int, days []int) (*models.Participant, error) {
	m.updateSelectionsCalls++
	if m.updateSelectionsErr != nil {
		return nil, m.updateSelectionsErr
	}
	total := m.schedule.TotalDays()
	for _, d := range days {
		if d < 1 || d > total {
			return nil, apperrors.Remote(apperrors.ErrValidation, "INVALID_SELECTION", "Selection out of range")
		}
	}
	for i := range m.participants {
		if m.participants[i].ID == participantID {
			committed := append([]int(nil), days...)
			sort.Ints(committed)
			m.participants[i].Selections = committed
			copied := m.participants[i]
			copied.Selections = append([]int(nil), committed...)
			return &copied, nil
		}
	}
	return nil, apperrors.Remote(apperrors.ErrNotFound, "PARTICIPANT_NOT_FOUND", "Participant not found")
}

// AddOption creates a poll option, enforcing the duplicate-name constraint
func (m *MockClient) AddOption(ctx context.Context, scheduleID int, kind models.OptionKind, name, optionURL string) (*models.Option, error) {
	m.addOptionCalls++
	if m.addOptionErr != nil {
		return nil, m.addOptionErr
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Remote(apperrors.ErrValidation, "VALIDATION_ERROR", "name: must not be blank")
	}
	list := m.optionList(kind)
	for _, o := range *list {
		if strings.EqualFold(o.Name, name) {
			code := "DUPLICATE_LOCATION"
			if kind == models.KindMenu {
				code = "DUPLICATE_MENU"
			}
			return nil, apperrors.Remote(apperrors.ErrConflict, code, "Option already exists: "+name)
		}
	}

	m.nextID++
	option := models.Option{
		ID:     m.nextID,
		Kind:   kind,
		Name:   name,
		Voters: []string{},
	}
	if kind == models.KindMenu {
		option.URL = optionURL
	}
	*list = append(*list, option)
	return copyOption(&option), nil
}

// RemoveOption deletes a poll option
func (m *MockClient) RemoveOption(ctx context.Context, kind models.OptionKind, optionID int) error {
	if m.removeOptionErr != nil {
		return m.removeOptionErr
	}
	list := m.optionList(kind)
	for i, o := range *list {
		if o.ID == optionID {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return nil
		}
	}
	return m.notFound(kind)
}

// Vote records a vote. A voter who already holds a vote on the option gets
// the current state back unchanged: the server's uniqueness constraint is
// the backstop for racing double-submissions.
func (m *MockClient) Vote(ctx context.Context, kind models.OptionKind, optionID int, voterName string) (*models.Option, error) {
	m.voteCalls++
	if m.voteErr != nil {
		return nil, m.voteErr
	}
	if strings.TrimSpace(voterName) == "" {
		return nil, apperrors.Remote(apperrors.ErrValidation, "VALIDATION_ERROR", "voterName: must not be blank")
	}
	option := m.findOption(kind, optionID)
	if option == nil {
		return nil, m.notFound(kind)
	}
	if !option.HasVoted(voterName) {
		option.Voters = append(option.Voters, voterName)
		option.VoteCount = len(option.Voters)
	}
	return copyOption(option), nil
}

// Unvote withdraws a vote, returning the current state unchanged when the
// voter held none
func (m *MockClient) Unvote(ctx context.Context, kind models.OptionKind, optionID int, voterName string) (*models.Option, error) {
	m.unvoteCalls++
	if m.unvoteErr != nil {
		return nil, m.unvoteErr
	}
	option := m.findOption(kind, optionID)
	if option == nil {
		return nil, m.notFound(kind)
	}
	kept := option.Voters[:0]
	for _, v := range option.Voters {
		if !strings.EqualFold(v, voterName) {
			kept = append(kept, v)
		}
	}
	option.Voters = kept
	option.VoteCount = len(option.Voters)
	return copyOption(option), nil
}

func (m *MockClient) optionList(kind models.OptionKind) *[]models.Option {
	if kind == models.KindMenu {
		return &m.menus
	}
	return &m.locations
}

func (m *MockClient) findOption(kind models.OptionKind, optionID int) *models.Option {
	list := m.optionList(kind)
	for i := range *list {
		if (*list)[i].ID == optionID {
			return &(*list)[i]
		}
	}
	return nil
}

func (m *MockClient) notFound(kind models.OptionKind) error {
	if kind == models.KindMenu {
		return apperrors.Remote(apperrors.ErrNotFound, "MENU_NOT_FOUND", "Menu not found")
	}
	return apperrors.Remote(apperrors.ErrNotFound, "LOCATION_NOT_FOUND", "Location not found")
}

func copyOption(o *models.Option) *models.Option {
	copied := *o
	copied.Voters = append([]string(nil), o.Voters...)
	return &copied
}

// VoteCalls returns how many Vote calls were made (for testing)
func (m *MockClient) VoteCalls() int { return m.voteCalls }

// UnvoteCalls returns how many Unvote calls were made (for testing)
func (m *MockClient) UnvoteCalls() int { return m.unvoteCalls }

// AddOptionCalls returns how many AddOption calls were made (for testing)
func (m *MockClient) AddOptionCalls() int { return m.addOptionCalls }

// CreateParticipantCalls returns how many CreateParticipant calls were made (for testing)
func (m *MockClient) CreateParticipantCalls() int { return m.createParticipantCalls }

// UpdateSelectionsCalls returns how many UpdateSelections calls were made (for testing)
func (m *MockClient) UpdateSelectionsCalls() int { return m.updateSelectionsCalls }

// Participants returns the current participant list (for testing)
func (m *MockClient) Participants() []models.Participant {
	return append([]models.Participant(nil), m.participants...)
}

// Options returns the current option list of a kind (for testing)
func (m *MockClient) Options(kind models.OptionKind) []models.Option {
	return append([]models.Option(nil), *m.optionList(kind)...)
}

// DefaultMockSchedule returns a sample extended-mode schedule for testing
func DefaultMockSchedule() models.Schedule {
	return models.Schedule{
		ID:             1,
		OwnerID:        "crew",
		Year:           2024,
		Month:          2,
		Weeks:          7,
		DaysInMonth:    29,
		FirstDayOfWeek: 4,
	}
}

// DefaultMockParticipants returns sample participants for testing
func DefaultMockParticipants() []models.Participant {
	return []models.Participant{
		{ID: 1, Name: "Alice", Color: models.ColorForIndex(0), Selections: []int{3, 4, 10}},
		{ID: 2, Name: "Bob", Color: models.ColorForIndex(1), Selections: []int{}},
		{ID: 3, Name: "Carol", Color: models.ColorForIndex(2), Selections: []int{4, 11}},
	}
}

// DefaultMockLocations returns sample location options for testing
func DefaultMockLocations() []models.Option {
	return []models.Option{
		{ID: 10, Kind: models.KindLocation, Name: "Han River Park", Voters: []string{"Alice"}, VoteCount: 1},
		{ID: 11, Kind: models.KindLocation, Name: "Seoul Forest", Voters: []string{}},
	}
}

// DefaultMockMenus returns sample menu options for testing
func DefaultMockMenus() []models.Option {
	return []models.Option{
		{ID: 20, Kind: models.KindMenu, Name: "Fried Chicken", URL: "https://example.com/chicken", Voters: []string{}},
	}
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
