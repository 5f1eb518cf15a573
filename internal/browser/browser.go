// Package browser opens URLs in the user's default browser.
package browser

import (
	"os/exec"
	"runtime"

	apperrors "github.com/singingsandhill/calendar/internal/errors"
)

// Commander abstracts command execution (for testing)
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander launches actual processes
type RealCommander struct{}

func (RealCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

var defaultCommander Commander = RealCommander{}

// Open opens url in the default browser for the current platform
func Open(url string) error {
	return OpenWithCommander(url, defaultCommander, runtime.GOOS)
}

// OpenWithCommander opens url using the given commander and OS (for testing)
func OpenWithCommander(url string, commander Commander, goos string) error {
	switch goos {
	case "linux":
		return commander.Start("xdg-open", url)
	case "darwin":
		return commander.Start("open", url)
	case "windows":
		return commander.Start("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return apperrors.Internalf("unsupported platform: %s", goos)
	}
}
