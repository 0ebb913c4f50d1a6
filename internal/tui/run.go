package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/form"
)

// ErrNotInteractive is returned when the editor has no terminal to run in.
var ErrNotInteractive = errors.New("the editor needs an interactive terminal")

// Run opens the editor over f until the user quits. It reports whether the
// user asked to write the result.
func Run(ctx context.Context, f *form.Form, opts ...Option) (bool, error) {
	if !NewDetector().Interactive() {
		return false, ErrNotInteractive
	}

	m, err := New(f, opts...)
	if err != nil {
		return false, err
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return false, fmt.Errorf("running editor: %w", err)
	}
	return final.(Model).Saved(), nil
}
