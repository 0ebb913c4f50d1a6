package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle is the style for the editor header.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	// SectionStyle titles a group of fields.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			MarginTop(1)

	FieldStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			PaddingLeft(2)

	SelectedFieldStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Background(ColorHighlight).
				Bold(true).
				PaddingLeft(2)

	// DefaultValueStyle marks values that still come from the schema.
	DefaultValueStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true).
				PaddingLeft(4)

	ItemStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			PaddingLeft(6)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Background(ColorPrimary).
				PaddingLeft(6)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			PaddingLeft(4)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// DialogStyle frames the preset picker and the confirmation prompt.
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)
