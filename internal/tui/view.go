package tui

import (
	"fmt"
	"strings"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.mode == modeFilter || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("  %d/%d", len(m.visible), len(m.fields))))
		b.WriteString("\n")
	}

	switch m.mode {
	case modePresets:
		b.WriteString(m.renderPresets())
	case modeConfirm:
		b.WriteString(m.renderConfirm())
	default:
		b.WriteString(m.renderFields())
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(ErrorStyle.Render(errorText(m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(StatusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	return HeaderStyle.Render(fmt.Sprintf("lndconf - %s", m.form.Platform()))
}

// window returns the slice of visible rows around the cursor that fits the
// terminal height.
func (m Model) window() (start, end int) {
	end = len(m.visible)
	rows := m.height - 10
	if m.height == 0 || rows >= end {
		return 0, end
	}
	rows = max(rows, 3)
	start = max(m.cursor-rows/2, 0)
	end = min(start+rows, len(m.visible))
	start = max(end-rows, 0)
	return start, end
}

func (m Model) renderFields() string {
	if len(m.visible) == 0 {
		return SubtleStyle.Render("  no matching fields") + "\n"
	}

	var b strings.Builder
	start, end := m.window()
	section := ""
	for i := start; i < end; i++ {
		f := m.fields[m.visible[i]]
		if f.Section != section {
			section = f.Section
			b.WriteString(SectionStyle.Render(m.sectionTitle(section)))
			b.WriteString("\n")
		}

		line := fmt.Sprintf("%-32s %s", f.Title, renderValue(f))
		if i == m.cursor {
			b.WriteString(SelectedFieldStyle.Render(line))
		} else {
			b.WriteString(FieldStyle.Render(line))
		}
		b.WriteString("\n")

		if i == m.cursor {
			b.WriteString(m.renderDetail(f))
		}
	}
	return b.String()
}

func (m Model) sectionTitle(name string) string {
	if s, ok := m.form.Schema().Section(name); ok && s.Title != "" {
		return s.Title
	}
	return name
}

// renderDetail shows the description, range warnings and the active control
// under the selected field.
func (m Model) renderDetail(f *field.Field) string {
	var b strings.Builder
	if f.Description != "" {
		b.WriteString(DescriptionStyle.Render(f.Description))
		b.WriteString("\n")
	}
	if n, ok := f.Value.(float64); ok {
		if err := f.Constraints.Check(n); err != nil {
			b.WriteString(WarnStyle.Render(errorText(err)))
			b.WriteString("\n")
		}
	}

	switch m.mode {
	case modeItems:
		b.WriteString(m.renderItems(f))
	case modeEdit:
		b.WriteString("    ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderItems(f *field.Field) string {
	var b strings.Builder
	if f.Kind == schema.KindList {
		items := listItems(f.Value)
		if len(items) == 0 {
			b.WriteString(SubtleStyle.Render("      empty, press a to add"))
			b.WriteString("\n")
		}
		for i, item := range items {
			line := fmt.Sprintf("%d. %s", i+1, field.Stringify(item))
			b.WriteString(m.renderItem(i, line))
		}
		return b.String()
	}

	for i, o := range f.Options {
		mark := "[ ]"
		if f.Selected(o.Value) {
			mark = "[x]"
		}
		b.WriteString(m.renderItem(i, mark+" "+o.Name))
	}
	return b.String()
}

func (m Model) renderItem(i int, line string) string {
	if i == m.sub && m.mode == modeItems {
		return SelectedItemStyle.Render(line) + "\n"
	}
	return ItemStyle.Render(line) + "\n"
}

func (m Model) renderPresets() string {
	var b strings.Builder
	b.WriteString(PromptStyle.Render(preset.SelectorDescription))
	b.WriteString("\n")
	for i, name := range m.form.Presets().Names() {
		if i == m.presetCursor {
			b.WriteString(SelectedItemStyle.Render(name))
		} else {
			b.WriteString(ItemStyle.Render(name))
		}
		b.WriteString("\n")
	}
	return DialogStyle.Render(b.String()) + "\n"
}

func (m Model) renderConfirm() string {
	body := PromptStyle.Render(preset.Prompt) + "\n" +
		SubtleStyle.Render(fmt.Sprintf("preset %s  (y/n)", m.pending))
	return DialogStyle.Render(body) + "\n"
}

// renderValue shows a value the way its control would.
func renderValue(f *field.Field) string {
	var s string
	switch f.Kind {
	case schema.KindFlag:
		s = "[ ]"
		if f.Checked() {
			s = "[x]"
		}
	case schema.KindEnum:
		s = f.Text()
		for _, o := range f.Options {
			if o.Value == s {
				s = o.Name
				break
			}
		}
	case schema.KindMultiSelect:
		var names []string
		for _, o := range f.Options {
			if f.Selected(o.Value) {
				names = append(names, o.Name)
			}
		}
		s = strings.Join(names, ", ")
	case schema.KindList:
		items := listItems(f.Value)
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = field.Stringify(item)
		}
		s = strings.Join(parts, ", ")
	default:
		s = f.Text()
	}

	if !f.Set {
		return DefaultValueStyle.Render(s)
	}
	return ValueStyle.Render(s)
}
