package share

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/singingsandhill/calendar/internal/models"
	"github.com/singingsandhill/calendar/internal/session"
	"github.com/singingsandhill/calendar/pkg/scheduleapi"
)

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}
func (noopLogger) SetLevel(level slog.Level)     {}
func (noopLogger) GetLevel() slog.Level          { return slog.LevelInfo }
func (noopLogger) EnableRequestLogging()         {}
func (noopLogger) DisableRequestLogging()        {}
func (noopLogger) IsRequestLoggingEnabled() bool { return false }

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.Load(context.Background(), noopLogger{}, scheduleapi.NewMockClient(), "crew", 2024, 2)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return sess
}

func TestScheduleURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"plain", "http://localhost:8080", "http://localhost:8080/crew/2024/2"},
		{"trailing slash", "http://localhost:8080/", "http://localhost:8080/crew/2024/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScheduleURL(tt.baseURL, "crew", 2024, 2); got != tt.want {
				t.Errorf("ScheduleURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQRImage(t *testing.T) {
	png, err := QRImage("http://localhost:8080", "crew", 2024, 2)
	if err != nil {
		t.Fatalf("QRImage() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected PNG output")
	}
}

func TestQRImage_EmptyBaseURL(t *testing.T) {
	if _, err := QRImage("  ", "crew", 2024, 2); err == nil {
		t.Fatal("expected error for blank base URL")
	}
}

func TestAnnouncement(t *testing.T) {
	sess := newTestSession(t)

	text := Announcement(sess)

	if !strings.Contains(text, "February 2024") {
		t.Errorf("missing month header in %q", text)
	}
	if !strings.Contains(text, "Alice, Bob, Carol") {
		t.Errorf("missing participant list in %q", text)
	}
	// Day-index 4 is shared by Alice and Carol; in the extended grid it
	// renders as January 31st.
	if !strings.Contains(text, "January 31st") {
		t.Errorf("missing popular day in %q", text)
	}
	if !strings.Contains(text, "Han River Park (1)") {
		t.Errorf("missing location leader in %q", text)
	}
	// No menu votes yet, so no menu line.
	if strings.Contains(text, "Menu:") {
		t.Errorf("unexpected menu line in %q", text)
	}
}

func TestAnnouncement_EmptySchedule(t *testing.T) {
	detail := &scheduleapi.ScheduleDetail{
		Schedule: models.Schedule{ID: 5, OwnerID: "crew", Year: 2024, Month: 3, Weeks: 5, DaysInMonth: 31, FirstDayOfWeek: 5},
	}
	sess := session.New(noopLogger{}, scheduleapi.NewMockClient(), detail)

	text := Announcement(sess)

	if !strings.Contains(text, "nobody yet") {
		t.Errorf("missing empty-roster text in %q", text)
	}
	if !strings.Contains(text, "No days picked yet.") {
		t.Errorf("missing empty-days text in %q", text)
	}
}
