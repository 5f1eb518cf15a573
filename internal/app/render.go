package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/singingsandhill/calendar/internal/models"
	"github.com/singingsandhill/calendar/internal/session"
)

// ANSI escape codes
const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	inverse = "\033[7m"
)

// participantANSI maps roster positions to foreground colors, mirroring
// the server's preset palette order
var participantANSI = []string{
	"\033[31m", // red
	"\033[34m", // blue
	"\033[32m", // green
	"\033[33m", // yellow
	"\033[35m", // magenta
	"\033[36m", // cyan
	"\033[91m", // bright red
	"\033[90m", // gray
}

func (a *App) paint(code, s string) string {
	if !a.colors {
		return s
	}
	return code + s + reset
}

func (a *App) ansiFor(participantID int) string {
	for i, p := range a.sess.Participants() {
		if p.ID == participantID {
			return participantANSI[i%len(participantANSI)]
		}
	}
	return ""
}

func (a *App) renderAll() {
	a.renderCalendar()
	a.renderParticipants()
	a.renderPolls()
}

func (a *App) renderCalendar() {
	view := a.sess.CalendarView()

	fmt.Fprintf(a.out, "\n%s\n", a.paint(bold, fmt.Sprintf("  %s %d", time.Month(view.Month), view.Year)))
	fmt.Fprintf(a.out, "  %s\n", a.paint(dim, " Su  Mo  Tu  We  Th  Fr  Sa"))

	for _, week := range view.Weeks {
		var cells []string
		var dots []string
		for _, cell := range week {
			cells = append(cells, a.renderCell(cell))
			dots = append(dots, a.renderDots(cell))
		}
		fmt.Fprintf(a.out, "  %s\n", strings.Join(cells, " "))
		if row := strings.Join(dots, " "); strings.TrimSpace(row) != "" {
			fmt.Fprintf(a.out, "  %s\n", row)
		}
	}
}

// renderCell draws one three-character day cell. The cell shows the
// day-index the commands accept, not the day of month, so extended grids
// stay addressable past the month boundary.
func (a *App) renderCell(cell session.DayCell) string {
	if cell.Empty {
		return "   "
	}
	s := fmt.Sprintf("%3d", cell.Index)
	switch {
	case cell.Selected:
		return a.paint(inverse, s)
	case cell.Today:
		return a.paint(bold, s)
	case cell.Past || cell.OtherMonth:
		return a.paint(dim, s)
	}
	return s
}

func (a *App) renderDots(cell session.DayCell) string {
	if cell.Empty || len(cell.Dots) == 0 {
		return "   "
	}
	var b strings.Builder
	for i, dot := range cell.Dots {
		if i >= 3 {
			break
		}
		b.WriteString(a.paint(a.ansiFor(dot.ParticipantID), "•"))
	}
	for i := len(cell.Dots); i < 3; i++ {
		b.WriteByte(' ')
	}
	return b.String()
}

func (a *App) renderParticipants() {
	participants := a.sess.Participants()
	fmt.Fprintf(a.out, "\n%s\n", a.paint(bold, "  Participants"))
	if len(participants) == 0 {
		fmt.Fprintln(a.out, "    (none yet)")
		return
	}
	active, hasActive := a.sess.ActiveParticipant()
	for _, p := range participants {
		marker := " "
		if hasActive && p.ID == active.ID {
			marker = ">"
		}
		name := a.paint(a.ansiFor(p.ID), p.Name)
		fmt.Fprintf(a.out, "  %s %s — %d day(s)\n", marker, name, len(p.Selections))
	}
}

func (a *App) renderPolls() {
	a.renderPoll("Locations", models.KindLocation)
	a.renderPoll("Menus", models.KindMenu)
}

func (a *App) renderPoll(title string, kind models.OptionKind) {
	view := a.sess.PollView(kind)
	fmt.Fprintf(a.out, "\n%s\n", a.paint(bold, "  "+title))
	if len(view.Rows) == 0 {
		fmt.Fprintln(a.out, "    (no options yet)")
		return
	}
	for _, row := range view.Rows {
		marker := " "
		if row.VotedByActive {
			marker = "✓"
		}
		line := fmt.Sprintf("  %s #%-3d %-24s %d vote(s)", marker, row.ID, row.Name, row.VoteCount)
		if row.Leading {
			line = a.paint(bold, line)
		}
		fmt.Fprintln(a.out, line)
		if row.URL != "" {
			fmt.Fprintf(a.out, "          %s\n", a.paint(dim, row.URL))
		}
	}
}
