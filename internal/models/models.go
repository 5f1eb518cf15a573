package models

import "strings"

// MaxParticipants is the remote authority's cap on participants per schedule.
// Enforced server-side; mirrored here for display purposes only.
const MaxParticipants = 8

// IndexingMode selects how day-index integers map to calendar cells
type IndexingMode int

const (
	// Legacy addresses only the literal month: indices 1..daysInMonth
	Legacy IndexingMode = iota
	// Extended addresses a full multi-week grid including adjacent-month
	// days: indices 1..totalDays, where index 1 is the first grid cell
	Extended
)

func (m IndexingMode) String() string {
	if m == Extended {
		return "extended"
	}
	return "legacy"
}

// extendedWeeks is the grid span the server uses for extended schedules
const extendedWeeks = 7

// Participant represents one member of a shared schedule
type Participant struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Selections []int  `json:"selections"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// Schedule is the immutable context for a rendered month: identity plus the
// calendar dimensions that give day-indices their meaning
type Schedule struct {
	ID             int    `json:"id"`
	OwnerID        string `json:"ownerId"`
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	Weeks          int    `json:"weeks"`
	DaysInMonth    int    `json:"daysInMonth"`
	FirstDayOfWeek int    `json:"firstDayOfWeek"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// IndexingMode derives the schedule's day-indexing scheme from its grid span
func (s *Schedule) IndexingMode() IndexingMode {
	if s.Weeks == extendedWeeks {
		return Extended
	}
	return Legacy
}

// TotalDays returns the number of addressable day-indices
func (s *Schedule) TotalDays() int {
	if s.IndexingMode() == Extended {
		return s.Weeks * 7
	}
	return s.DaysInMonth
}

// OptionKind distinguishes the two structurally identical poll domains
type OptionKind string

const (
	KindLocation OptionKind = "location"
	KindMenu     OptionKind = "menu"
)

// Option is a vote-able poll candidate. Voters is ordered by vote time;
// VoteCount always equals len(Voters).
type Option struct {
	ID        int        `json:"id"`
	Kind      OptionKind `json:"-"`
	Name      string     `json:"name"`
	URL       string     `json:"url,omitempty"` // menu options only
	Voters    []string   `json:"voters"`
	VoteCount int        `json:"voteCount"`
	CreatedAt string     `json:"createdAt,omitempty"`
}

// HasVoted reports whether name already holds a vote on the option.
// Names are matched case-insensitively but stored with original casing.
func (o *Option) HasVoted(name string) bool {
	for _, v := range o.Voters {
		if strings.EqualFold(v, name) {
			return true
		}
	}
	return false
}

// presetColors is the palette the server assigns participant colors from
var presetColors = []string{
	"#E74C3C", // red
	"#3498DB", // blue
	"#2ECC71", // green
	"#F39C12", // orange
	"#9B59B6", // purple
	"#1ABC9C", // teal
	"#E67E22", // dark orange
	"#34495E", // dark
}

// ColorForIndex returns the preset color for the nth participant, cycling
// through the palette the same way the server does
func ColorForIndex(index int) string {
	if index < 0 {
		index = -index
	}
	return presetColors[index%len(presetColors)]
}

// PresetColorCount returns the size of the participant color palette
func PresetColorCount() int {
	return len(presetColors)
}
