package tui

import (
	"os"

	"golang.org/x/term"
)

// Detector decides whether the interactive editor can run.
type Detector struct {
	getenv func(string) string
	isTTY  func() bool
}

// NewDetector creates a detector for the process terminal.
func NewDetector() *Detector {
	return &Detector{
		getenv: os.Getenv,
		isTTY: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

// Interactive reports whether stdin and stdout are terminals outside CI.
func (d *Detector) Interactive() bool {
	if d.getenv("CI") != "" || d.getenv("GITHUB_ACTIONS") != "" {
		return false
	}
	if d.getenv("TERM") == "dumb" {
		return false
	}
	return d.isTTY()
}

// ShouldUseColor follows the NO_COLOR convention.
func (d *Detector) ShouldUseColor() bool {
	if d.getenv("NO_COLOR") != "" || d.getenv("TERM") == "dumb" {
		return false
	}
	return d.isTTY()
}
