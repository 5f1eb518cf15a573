package session

import (
	"context"
	"strings"

	"github.com/singingsandhill/calendar/internal/logger"
	"github.com/singingsandhill/calendar/internal/models"
	"github.com/singingsandhill/calendar/pkg/scheduleapi"
)

// Tally maintains the ordered option collection for one poll domain
// (location or menu). All mutations go through the remote authority; its
// echoed payload always wins over the locally computed delta, so a racing
// duplicate vote reconciles to a no-op instead of double-counting.
type Tally struct {
	log        logger.Logger
	client     scheduleapi.Client
	scheduleID int
	kind       models.OptionKind
	options    []models.Option
}

// NewTally creates a tally for one option kind, seeded with the options
// loaded at page load
func NewTally(log logger.Logger, client scheduleapi.Client, scheduleID int, kind models.OptionKind, seed []models.Option) *Tally {
	options := make([]models.Option, len(seed))
	copy(options, seed)
	for i := range options {
		options[i].Kind = kind
		options[i].VoteCount = len(options[i].Voters)
	}
	return &Tally{
		log:        log,
		client:     client,
		scheduleID: scheduleID,
		kind:       kind,
		options:    options,
	}
}

// Kind returns the poll domain this tally tracks
func (t *Tally) Kind() models.OptionKind {
	return t.kind
}

// AddOption creates a new option through the remote authority and appends
// it on success. Options are never speculatively created: a failure leaves
// the collection untouched.
func (t *Tally) AddOption(ctx context.Context, name, optionURL string) (*models.Option, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyOptionName
	}

	option, err := t.client.AddOption(ctx, t.scheduleID, t.kind, name, strings.TrimSpace(optionURL))
	if err != nil {
		return nil, err
	}

	t.options = append(t.options, *option)
	t.log.Info("option added", "kind", t.kind, "id", option.ID, "name", option.Name)
	return copyOption(option), nil
}

// RemoveOption deletes an option through the remote authority and drops it
// locally on success
func (t *Tally) RemoveOption(ctx context.Context, optionID int) error {
	if err := t.client.RemoveOption(ctx, t.kind, optionID); err != nil {
		return err
	}
	for i := range t.options {
		if t.options[i].ID == optionID {
			t.options = append(t.options[:i], t.options[i+1:]...)
			break
		}
	}
	t.log.Info("option removed", "kind", t.kind, "id", optionID)
	return nil
}

// ToggleVote votes or unvotes optionID for voterName, depending on whether
// the voter currently holds a vote. The hasVoted check is made before the
// remote round trip; local state is only mutated from the server's echoed
// option, after the call resolves.
func (t *Tally) ToggleVote(ctx context.Context, optionID int, voterName string) (*models.Option, error) {
	if strings.TrimSpace(voterName) == "" {
		return nil, ErrNoActiveParticipant
	}

	current := t.find(optionID)
	if current == nil {
		return nil, t.notFound(optionID)
	}

	var (
		echoed *models.Option
		err    error
	)
	if current.HasVoted(voterName) {
		echoed, err = t.client.Unvote(ctx, t.kind, optionID, voterName)
	} else {
		echoed, err = t.client.Vote(ctx, t.kind, optionID, voterName)
	}
	if err != nil {
		return nil, err
	}

	t.resync(echoed)
	return copyOption(echoed), nil
}

// Option returns a copy of one option by id
func (t *Tally) Option(optionID int) (*models.Option, bool) {
	o := t.find(optionID)
	if o == nil {
		return nil, false
	}
	return copyOption(o), true
}

// Options returns a copy of the option collection in insertion order
func (t *Tally) Options() []models.Option {
	out := make([]models.Option, len(t.options))
	copy(out, t.options)
	for i := range out {
		out[i].Voters = append([]string(nil), t.options[i].Voters...)
	}
	return out
}

// Leaders returns every option tied at the highest vote count, in
// insertion order. Ties are not resolved here; the first entry is the
// natural deterministic pick if a caller needs exactly one.
func (t *Tally) Leaders() []models.Option {
	best := 0
	for i := range t.options {
		if t.options[i].VoteCount > best {
			best = t.options[i].VoteCount
		}
	}
	if best == 0 {
		return nil
	}
	var leaders []models.Option
	for i := range t.options {
		if t.options[i].VoteCount == best {
			leaders = append(leaders, *copyOption(&t.options[i]))
		}
	}
	return leaders
}

func (t *Tally) find(optionID int) *models.Option {
	for i := range t.options {
		if t.options[i].ID == optionID {
			return &t.options[i]
		}
	}
	return nil
}

// resync replaces the stored option with the server's authoritative state
func (t *Tally) resync(echoed *models.Option) {
	for i := range t.options {
		if t.options[i].ID == echoed.ID {
			updated := *echoed
			updated.Kind = t.kind
			updated.Voters = append([]string(nil), echoed.Voters...)
			updated.VoteCount = len(updated.Voters)
			t.options[i] = updated
			return
		}
	}
}

func (t *Tally) notFound(optionID int) error {
	if t.kind == models.KindMenu {
		return menuNotFound(optionID)
	}
	return locationNotFound(optionID)
}

func copyOption(o *models.Option) *models.Option {
	copied := *o
	copied.Voters = append([]string(nil), o.Voters...)
	return &copied
}
