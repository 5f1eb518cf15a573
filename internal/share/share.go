// Package share builds shareable artifacts for a schedule: the page URL,
// a QR code image for it, and a plain-text announcement of the current
// standings.
package share

import (
	"fmt"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/singingsandhill/calendar/internal/calendar"
	"github.com/singingsandhill/calendar/internal/models"
	"github.com/singingsandhill/calendar/internal/session"
)

// ScheduleURL returns the page URL for a schedule month
func ScheduleURL(baseURL, ownerID string, year, month int) string {
	return fmt.Sprintf("%s/%s/%d/%d", strings.TrimSuffix(baseURL, "/"), ownerID, year, month)
}

// QRImage generates a QR code PNG for the schedule page URL
func QRImage(baseURL, ownerID string, year, month int) ([]byte, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("base URL not configured")
	}
	return qrcode.Encode(ScheduleURL(baseURL, ownerID, year, month), qrcode.Medium, 256)
}

// Announcement renders a plain-text summary of the schedule: the most
// popular days and the leading location and menu options, suitable for
// pasting into a group chat.
func Announcement(sess *session.Session) string {
	schedule := sess.Schedule()
	monthName := time.Month(schedule.Month).String()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d with %s\n", monthName, schedule.Year, participantList(sess.Participants()))

	if days := popularDays(sess); len(days) > 0 {
		labels := make([]string, len(days))
		for i, day := range days {
			labels[i] = dayLabel(sess, day)
		}
		fmt.Fprintf(&b, "Best days so far: %s\n", strings.Join(labels, ", "))
	} else {
		b.WriteString("No days picked yet.\n")
	}

	writeLeaders(&b, "Location", sess.Locations())
	writeLeaders(&b, "Menu", sess.Menus())

	return b.String()
}

func participantList(participants []models.Participant) string {
	if len(participants) == 0 {
		return "nobody yet"
	}
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// popularDays returns the day-indices shared by the most participants,
// in calendar order
func popularDays(sess *session.Session) []int {
	counts := map[int]int{}
	best := 0
	for _, p := range sess.Participants() {
		for _, day := range p.Selections {
			counts[day]++
			if counts[day] > best {
				best = counts[day]
			}
		}
	}
	if best == 0 {
		return nil
	}
	var days []int
	for _, idx := range sess.Geometry().DayIndices() {
		if counts[idx] == best {
			days = append(days, idx)
		}
	}
	return days
}

// dayLabel renders a day-index as its calendar date, e.g. "February 9th"
func dayLabel(sess *session.Session, idx int) string {
	cell, ok := sess.Geometry().Cell(idx)
	if !ok {
		return fmt.Sprintf("day %d", idx)
	}
	return calendar.DateLabel(cell.Month, cell.Day)
}

func writeLeaders(b *strings.Builder, label string, tally *session.Tally) {
	leaders := tally.Leaders()
	if len(leaders) == 0 {
		return
	}
	names := make([]string, len(leaders))
	for i, o := range leaders {
		names[i] = fmt.Sprintf("%s (%d)", o.Name, o.VoteCount)
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(names, ", "))
}
