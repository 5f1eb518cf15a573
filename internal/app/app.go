// Package app wires the configuration, API client, and coordination
// session into the interactive command loop behind the CLI.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/singingsandhill/calendar/internal/browser"
	"github.com/singingsandhill/calendar/internal/config"
	apperrors "github.com/singingsandhill/calendar/internal/errors"
	"github.com/singingsandhill/calendar/internal/logger"
	"github.com/singingsandhill/calendar/internal/models"
	"github.com/singingsandhill/calendar/internal/session"
	"github.com/singingsandhill/calendar/internal/share"
	"github.com/singingsandhill/calendar/pkg/scheduleapi"
)

// openURL is swappable for testing
var openURL = browser.Open

// App holds all application dependencies
type App struct {
	log    logger.Logger
	cfg    config.Config
	client scheduleapi.Client
	sess   *session.Session
	out    io.Writer
	colors bool
}

// New creates an application instance. The session is loaded lazily by Run
// so construction never touches the network.
func New(log logger.Logger, cfg config.Config, client scheduleapi.Client, out io.Writer, colors bool) *App {
	return &App{
		log:    log,
		cfg:    cfg,
		client: client,
		out:    out,
		colors: !cfg.NoColor && colors,
	}
}

// Run loads the schedule and drives the interactive command loop until in
// is exhausted or the user quits
func (a *App) Run(ctx context.Context, in io.Reader) error {
	sess, err := session.Load(ctx, a.log, a.client, a.cfg.OwnerID, a.cfg.Year, a.cfg.Month)
	if err != nil {
		return err
	}
	a.sess = sess

	a.renderAll()
	a.printPrompt()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			a.printPrompt()
			continue
		}
		quit, err := a.dispatch(ctx, line)
		if err != nil {
			a.printError(err)
		}
		if quit {
			return nil
		}
		a.printPrompt()
	}
	return scanner.Err()
}

// dispatch executes one command line, returning true when the loop should
// stop
func (a *App) dispatch(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help", "?":
		a.printHelp()
	case "show":
		a.renderAll()
	case "use":
		return false, a.cmdUse(args)
	case "done":
		a.sess.DeselectParticipant()
		a.renderAll()
	case "add":
		return false, a.cmdAdd(ctx, args)
	case "remove":
		return false, a.cmdRemove(ctx, args)
	case "day":
		return false, a.cmdDay(args)
	case "save":
		return false, a.cmdSave(ctx)
	case "reset":
		if err := a.sess.ResetSelections(); err != nil {
			return false, err
		}
		a.renderCalendar()
	case "vote":
		return false, a.cmdVote(ctx, args)
	case "addloc":
		return false, a.cmdAddOption(ctx, models.KindLocation, args)
	case "addmenu":
		return false, a.cmdAddOption(ctx, models.KindMenu, args)
	case "rmloc":
		return false, a.cmdRemoveOption(ctx, models.KindLocation, args)
	case "rmmenu":
		return false, a.cmdRemoveOption(ctx, models.KindMenu, args)
	case "share":
		a.cmdShare()
	case "qr":
		return false, a.cmdQR(args)
	case "open":
		return false, openURL(a.shareURL())
	case "verbose":
		a.cmdVerbose()
	case "loglevel":
		return false, a.cmdLogLevel(args)
	case "quit", "q", "exit":
		return true, nil
	default:
		return false, apperrors.Validationf("unknown command %q (try help)", cmd)
	}
	return false, nil
}

func (a *App) cmdUse(args []string) error {
	if len(args) == 0 {
		return apperrors.Validation("usage: use <name>")
	}
	name := strings.Join(args, " ")
	for _, p := range a.sess.Participants() {
		if strings.EqualFold(p.Name, name) {
			if err := a.sess.SelectParticipant(p.ID); err != nil {
				return err
			}
			a.renderAll()
			return nil
		}
	}
	return apperrors.NotFoundf("no participant named %q", name)
}

func (a *App) cmdAdd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return apperrors.Validation("usage: add <name>")
	}
	created, err := a.sess.AddParticipant(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s\n", created.Name)
	a.renderParticipants()
	return nil
}

func (a *App) cmdRemove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return apperrors.Validation("usage: remove <name>")
	}
	name := strings.Join(args, " ")
	for _, p := range a.sess.Participants() {
		if strings.EqualFold(p.Name, name) {
			if err := a.sess.RemoveParticipant(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed %s\n", p.Name)
			a.renderParticipants()
			return nil
		}
	}
	return apperrors.NotFoundf("no participant named %q", name)
}

func (a *App) cmdDay(args []string) error {
	if len(args) == 0 {
		return apperrors.Validation("usage: day <number> [number...]")
	}
	for _, arg := range args {
		day, err := strconv.Atoi(arg)
		if err != nil {
			return apperrors.Validationf("%q is not a day number", arg)
		}
		if err := a.sess.ToggleDay(day); err != nil {
			return err
		}
	}
	a.renderCalendar()
	return nil
}

func (a *App) cmdSave(ctx context.Context) error {
	saved, err := a.sess.SaveSelections(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d day(s) for %s\n", len(saved.Selections), saved.Name)
	a.renderCalendar()
	return nil
}

func (a *App) cmdVote(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return apperrors.Validation("usage: vote <loc|menu> <id>")
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	optionID, err := strconv.Atoi(args[1])
	if err != nil {
		return apperrors.Validationf("%q is not an option id", args[1])
	}
	option, err := a.sess.ToggleVote(ctx, kind, optionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s now has %d vote(s)\n", option.Name, option.VoteCount)
	a.renderPolls()
	return nil
}

func (a *App) cmdAddOption(ctx context.Context, kind models.OptionKind, args []string) error {
	if len(args) == 0 {
		return apperrors.Validationf("usage: add%s <name> [url]", shortKind(kind))
	}
	// A trailing URL argument only applies to menus
	name := strings.Join(args, " ")
	var optionURL string
	if kind == models.KindMenu && len(args) > 1 && strings.Contains(args[len(args)-1], "://") {
		optionURL = args[len(args)-1]
		name = strings.Join(args[:len(args)-1], " ")
	}
	option, err := a.sess.Tally(kind).AddOption(ctx, name, optionURL)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s #%d\n", option.Name, option.ID)
	a.renderPolls()
	return nil
}

func (a *App) cmdRemoveOption(ctx context.Context, kind models.OptionKind, args []string) error {
	if len(args) != 1 {
		return apperrors.Validationf("usage: rm%s <id>", shortKind(kind))
	}
	optionID, err := strconv.Atoi(args[0])
	if err != nil {
		return apperrors.Validationf("%q is not an option id", args[0])
	}
	if err := a.sess.Tally(kind).RemoveOption(ctx, optionID); err != nil {
		return err
	}
	a.renderPolls()
	return nil
}

func (a *App) cmdShare() {
	fmt.Fprintf(a.out, "%s\n\n%s", a.shareURL(), share.Announcement(a.sess))
}

func (a *App) cmdQR(args []string) error {
	if len(args) != 1 {
		return apperrors.Validation("usage: qr <file.png>")
	}
	schedule := a.sess.Schedule()
	png, err := share.QRImage(a.client.BaseURL(), schedule.OwnerID, schedule.Year, schedule.Month)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], png, 0o644); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternal, "writing QR image")
	}
	fmt.Fprintf(a.out, "QR code written to %s\n", args[0])
	return nil
}

func (a *App) cmdVerbose() {
	if a.log.IsRequestLoggingEnabled() {
		a.log.DisableRequestLogging()
		fmt.Fprintln(a.out, "Request logging off")
	} else {
		a.log.EnableRequestLogging()
		fmt.Fprintln(a.out, "Request logging on")
	}
}

func (a *App) cmdLogLevel(args []string) error {
	if len(args) != 1 {
		return apperrors.Validation("usage: loglevel <debug|info|warn|error>")
	}
	a.log.SetLevel(logger.ParseLevel(args[0]))
	fmt.Fprintf(a.out, "Log level: %s\n", args[0])
	return nil
}

func (a *App) shareURL() string {
	schedule := a.sess.Schedule()
	return share.ScheduleURL(a.client.BaseURL(), schedule.OwnerID, schedule.Year, schedule.Month)
}

func parseKind(s string) (models.OptionKind, error) {
	switch strings.ToLower(s) {
	case "loc", "location":
		return models.KindLocation, nil
	case "menu":
		return models.KindMenu, nil
	}
	return "", apperrors.Validationf("unknown poll %q (want loc or menu)", s)
}

func shortKind(kind models.OptionKind) string {
	if kind == models.KindMenu {
		return "menu"
	}
	return "loc"
}

func (a *App) printError(err error) {
	switch {
	case apperrors.IsKind(err, apperrors.ErrPrecondition), apperrors.IsKind(err, apperrors.ErrValidation):
		fmt.Fprintf(a.out, "%s\n", errorMessage(err))
	case apperrors.IsKind(err, apperrors.ErrTransport):
		fmt.Fprintf(a.out, "Server unreachable: %s\n", errorMessage(err))
	default:
		fmt.Fprintf(a.out, "Error: %s\n", errorMessage(err))
	}
}

func errorMessage(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func (a *App) printHelp() {
	fmt.Fprint(a.out, `Commands:
  show                 Redraw the calendar and polls
  use <name>           Edit a participant's selections
  done                 Stop editing
  add <name>           Add a participant
  remove <name>        Remove a participant
  day <n> [n...]       Toggle day(s) in the edit buffer
  save                 Push the edit buffer to the server
  reset                Empty the edit buffer
  vote <loc|menu> <id> Toggle your vote on an option
  addloc <name>        Add a location option
  addmenu <name> [url] Add a menu option
  rmloc <id>           Remove a location option
  rmmenu <id>          Remove a menu option
  share                Print the share URL and current standings
  qr <file.png>        Write a QR code for the share URL
  open                 Open the schedule page in a browser
  verbose              Toggle API request logging
  loglevel <level>     Set the log level
  quit                 Exit
`)
}

func (a *App) printPrompt() {
	if active, ok := a.sess.ActiveParticipant(); ok {
		marker := ""
		if a.sess.HasUnsavedChanges() {
			marker = "*"
		}
		fmt.Fprintf(a.out, "[%s%s] > ", active.Name, marker)
		return
	}
	fmt.Fprint(a.out, "> ")
}
