package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/singingsandhill/calendar/internal/config"
	apperrors "github.com/singingsandhill/calendar/internal/errors"
	"github.com/singingsandhill/calendar/internal/testutil"
	"github.com/singingsandhill/calendar/pkg/scheduleapi"
)

func testConfig() config.Config {
	return config.Config{
		ServerURL: "http://localhost:8080",
		OwnerID:   "crew",
		Year:      2024,
		Month:     2,
		LogLevel:  "info",
		NoColor:   true,
	}
}

// runScript feeds commands through the app's loop and returns the output
func runScript(t *testing.T, mock *scheduleapi.MockClient, commands ...string) string {
	t.Helper()

	var out bytes.Buffer
	a := New(testutil.NopLogger(), testConfig(), mock, &out, false)

	script := strings.Join(append(commands, "quit"), "\n") + "\n"
	if err := a.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestRun_RendersScheduleOnLoad(t *testing.T) {
	out := runScript(t, scheduleapi.NewMockClient())

	if !strings.Contains(out, "February 2024") {
		t.Errorf("missing calendar header in output:\n%s", out)
	}
	if !strings.Contains(out, "Alice") {
		t.Errorf("missing participant roster in output:\n%s", out)
	}
	if !strings.Contains(out, "Han River Park") {
		t.Errorf("missing location poll in output:\n%s", out)
	}
	if !strings.Contains(out, "Fried Chicken") {
		t.Errorf("missing menu poll in output:\n%s", out)
	}
}

func TestRun_LoadFailure(t *testing.T) {
	mock := scheduleapi.NewMockClient(
		scheduleapi.WithFetchError(apperrors.Remote(apperrors.ErrNotFound, "SCHEDULE_NOT_FOUND", "Schedule not found")),
	)

	var out bytes.Buffer
	a := New(testutil.NopLogger(), testConfig(), mock, &out, false)

	err := a.Run(context.Background(), strings.NewReader("quit\n"))
	if !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("Run() error = %v, want not found", err)
	}
}

func TestDispatch_UseAndSave(t *testing.T) {
	mock := scheduleapi.NewMockClient()

	out := runScript(t, mock, "use bob", "day 7", "day 2", "save")

	if !strings.Contains(out, "[Bob]") {
		t.Errorf("missing active-participant prompt in output:\n%s", out)
	}
	if !strings.Contains(out, "[Bob*]") {
		t.Errorf("missing unsaved-changes marker in output:\n%s", out)
	}
	if !strings.Contains(out, "Saved 2 day(s) for Bob") {
		t.Errorf("missing save confirmation in output:\n%s", out)
	}
	if mock.UpdateSelectionsCalls() != 1 {
		t.Errorf("UpdateSelectionsCalls() = %d, want 1", mock.UpdateSelectionsCalls())
	}
}

func TestDispatch_DayWithoutParticipant(t *testing.T) {
	out := runScript(t, scheduleapi.NewMockClient(), "day 7")

	if !strings.Contains(out, "no participant is selected") {
		t.Errorf("missing guard message in output:\n%s", out)
	}
}

func TestDispatch_AddAndRemoveParticipant(t *testing.T) {
	mock := scheduleapi.NewMockClient()

	out := runScript(t, mock, "add Dave", "remove dave")

	if !strings.Contains(out, "Added Dave") {
		t.Errorf("missing add confirmation in output:\n%s", out)
	}
	if !strings.Contains(out, "Removed Dave") {
		t.Errorf("missing remove confirmation in output:\n%s", out)
	}
	if len(mock.Participants()) != 3 {
		t.Errorf("participants = %d, want 3 after add+remove", len(mock.Participants()))
	}
}

func TestDispatch_Vote(t *testing.T) {
	mock := scheduleapi.NewMockClient()

	out := runScript(t, mock, "use bob", "vote loc 11")

	if !strings.Contains(out, "Seoul Forest now has 1 vote(s)") {
		t.Errorf("missing vote confirmation in output:\n%s", out)
	}
	if mock.VoteCalls() != 1 {
		t.Errorf("VoteCalls() = %d, want 1", mock.VoteCalls())
	}
}

func TestDispatch_VoteWithoutParticipant(t *testing.T) {
	mock := scheduleapi.NewMockClient()

	out := runScript(t, mock, "vote menu 20")

	if !strings.Contains(out, "no participant is selected") {
		t.Errorf("missing guard message in output:\n%s", out)
	}
	if mock.VoteCalls() != 0 {
		t.Errorf("VoteCalls() = %d, want 0", mock.VoteCalls())
	}
}

func TestDispatch_AddMenuWithURL(t *testing.T) {
	mock := scheduleapi.NewMockClient()

	runScript(t, mock, "addmenu Sushi https://example.com/sushi")

	menus := mock.Options("menu")
	if len(menus) != 2 {
		t.Fatalf("menus = %d, want 2", len(menus))
	}
	if menus[1].Name != "Sushi" || menus[1].URL != "https://example.com/sushi" {
		t.Errorf("added menu = %+v, want Sushi with URL", menus[1])
	}
}

func TestDispatch_Share(t *testing.T) {
	out := runScript(t, scheduleapi.NewMockClient(), "share")

	if !strings.Contains(out, "/crew/2024/2") {
		t.Errorf("missing share URL in output:\n%s", out)
	}
	if !strings.Contains(out, "Best days so far") {
		t.Errorf("missing announcement in output:\n%s", out)
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	out := runScript(t, scheduleapi.NewMockClient(), "frobnicate")

	if !strings.Contains(out, "unknown command") {
		t.Errorf("missing unknown-command message in output:\n%s", out)
	}
}

func TestDispatch_Open(t *testing.T) {
	original := openURL
	defer func() { openURL = original }()

	var opened string
	openURL = func(url string) error {
		opened = url
		return nil
	}

	runScript(t, scheduleapi.NewMockClient(), "open")

	if !strings.Contains(opened, "/crew/2024/2") {
		t.Errorf("opened URL = %q, want the schedule page", opened)
	}
}

func TestDispatch_QR(t *testing.T) {
	path := t.TempDir() + "/share.png"

	out := runScript(t, scheduleapi.NewMockClient(), "qr "+path)

	if !strings.Contains(out, "QR code written") {
		t.Errorf("missing confirmation in output:\n%s", out)
	}
}
