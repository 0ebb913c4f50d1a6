package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/clip"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/form"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
)

type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeFilter
	modeItems
	modePresets
	modeConfirm
)

// Copier copies text out of the editor.
type Copier interface {
	Copy(text string) (clip.Result, error)
}

// Option configures a Model.
type Option func(*Model)

// WithCopier replaces the clipboard used by the copy key.
func WithCopier(c Copier) Option {
	return func(m *Model) {
		m.copier = c
	}
}

// Model is the editor model. Every change goes through the form, so
// observers registered on it see edits made here.
type Model struct {
	form   *form.Form
	copier Copier
	keys   keyMap
	help   help.Model

	fields  []*field.Field
	visible []int
	cursor  int
	sub     int
	mode    mode

	input    textinput.Model
	editItem int
	filter   textinput.Model

	presetCursor int
	pending      string

	status string
	err    error
	saved  bool
	width  int
	height int
}

// New creates an editor over f.
func New(f *form.Form, opts ...Option) (Model, error) {
	input := textinput.New()
	input.CharLimit = 1024
	input.Prompt = "> "

	filter := textinput.New()
	filter.Placeholder = "filter fields..."
	filter.Prompt = "/ "
	filter.CharLimit = 128

	m := Model{
		form:     f,
		copier:   clip.New(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    input,
		filter:   filter,
		editItem: -1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if err := m.refresh(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Saved reports whether the user quit with write.
func (m Model) Saved() bool {
	return m.saved
}

// Form returns the edited form.
func (m Model) Form() *form.Form {
	return m.form
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeFilter:
			return m.updateFilter(msg)
		case modeItems:
			return m.updateItems(msg)
		case modePresets:
			return m.updatePresets(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Save):
		m.saved = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		return m.activate()
	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Presets):
		m.mode = modePresets
		m.presetCursor = 0
	case key.Matches(msg, m.keys.Copy):
		m.copyCurrent()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Back):
		if m.filter.Value() != "" {
			m.filter.Reset()
			m.applyFilter()
		}
	}
	return m, nil
}

// activate edits the selected field the way its kind expects: flags toggle,
// enums cycle, collections open their items and the rest take text input.
func (m Model) activate() (tea.Model, tea.Cmd) {
	f := m.current()
	if f == nil {
		return m, nil
	}
	switch f.Kind {
	case schema.KindFlag:
		m.edit(f, field.CheckEdit(!f.Checked()))
	case schema.KindEnum:
		if len(f.Options) > 0 {
			m.edit(f, field.TextEdit(f.Options[nextOption(f)].Value))
		}
	case schema.KindMultiSelect, schema.KindList:
		m.mode = modeItems
		m.sub = 0
	default:
		return m.startEdit(f.Text(), -1)
	}
	return m, nil
}

func (m Model) startEdit(text string, item int) (tea.Model, tea.Cmd) {
	m.mode = modeEdit
	m.editItem = item
	m.input.SetValue(text)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.mode = m.afterEdit()
		return m, nil
	case tea.KeyEnter:
		f := m.current()
		var err error
		if m.editItem >= 0 {
			_, err = m.form.SetListItem(f.Section, f.Property, m.editItem, m.input.Value())
		} else {
			_, err = m.form.Edit(f.Section, f.Property, field.TextEdit(m.input.Value()))
		}
		if err != nil {
			m.err = err
			return m, nil
		}
		m.input.Blur()
		m.mode = m.afterEdit()
		m.changed(f)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) afterEdit() mode {
	if m.editItem >= 0 {
		return modeItems
	}
	return modeBrowse
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter.Reset()
		m.filter.Blur()
		m.applyFilter()
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEnter:
		m.filter.Blur()
		m.mode = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) updateItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.current()
	if f == nil {
		m.mode = modeBrowse
		return m, nil
	}
	n := itemCount(f)

	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeBrowse
	case key.Matches(msg, m.keys.Up):
		if m.sub > 0 {
			m.sub--
		}
	case key.Matches(msg, m.keys.Down):
		if m.sub < n-1 {
			m.sub++
		}
	case key.Matches(msg, m.keys.Append) && f.Kind == schema.KindList:
		if _, err := m.form.AppendListItem(f.Section, f.Property); err != nil {
			m.err = err
			return m, nil
		}
		m.changed(f)
		m.sub = itemCount(m.current()) - 1
		return m.startEdit("", m.sub)
	case key.Matches(msg, m.keys.Select) && n > 0:
		if f.Kind == schema.KindList {
			return m.startEdit(field.Stringify(listItems(f.Value)[m.sub]), m.sub)
		}
		opt := f.Options[m.sub].Value
		if _, err := m.form.ToggleOption(f.Section, f.Property, opt, !f.Selected(opt)); err != nil {
			m.err = err
			return m, nil
		}
		m.changed(f)
	}
	return m, nil
}

func (m Model) updatePresets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := m.form.Presets().Names()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeBrowse
	case key.Matches(msg, m.keys.Up):
		if m.presetCursor > 0 {
			m.presetCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.presetCursor < len(names)-1 {
			m.presetCursor++
		}
	case key.Matches(msg, m.keys.Select):
		if len(names) > 0 {
			m.pending = names[m.presetCursor]
			m.mode = modeConfirm
		}
	}
	return m, nil
}

// updateConfirm answers the overwrite prompt. The answer is handed to the
// form as its confirmer.
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch msg.String() {
	case "y", "Y":
		answer = true
	case "n", "N", "esc":
	default:
		return m, nil
	}

	name := m.pending
	m.pending = ""
	m.mode = modeBrowse

	applied, err := m.form.ApplyPreset(name, preset.ConfirmFunc(func(string) (bool, error) {
		return answer, nil
	}))
	if err != nil {
		m.err = err
		return m, nil
	}
	if !applied {
		m.status = fmt.Sprintf("preset %s not applied", name)
		return m, nil
	}
	m.err = nil
	m.status = fmt.Sprintf("preset %s applied", name)
	if err := m.refresh(); err != nil {
		m.err = err
	}
	return m, nil
}

func (m *Model) edit(f *field.Field, e field.Edit) {
	if _, err := m.form.Edit(f.Section, f.Property, e); err != nil {
		m.err = err
		return
	}
	m.changed(f)
}

func (m *Model) changed(f *field.Field) {
	m.err = nil
	m.status = "changed " + f.Key()
	if err := m.refresh(); err != nil {
		m.err = err
	}
}

// copyCurrent copies the selected field as a conf line.
func (m *Model) copyCurrent() {
	f := m.current()
	if f == nil {
		return
	}
	res, err := m.copier.Copy(f.Property + "=" + f.Text())
	if err != nil {
		m.err = err
		return
	}
	m.status = res.String()
}

// refresh re-resolves the form, keeping the selection on the same key.
func (m *Model) refresh() error {
	var selected string
	if f := m.current(); f != nil {
		selected = f.Key()
	}

	sections, err := m.form.Sections()
	if err != nil {
		return err
	}
	var fields []*field.Field
	for _, s := range sections {
		fields = append(fields, s.Fields...)
	}
	m.fields = fields
	m.applyFilter()

	for i, idx := range m.visible {
		if m.fields[idx].Key() == selected {
			m.cursor = i
			break
		}
	}
	return nil
}

// applyFilter fuzzy matches the filter against field keys and titles.
func (m *Model) applyFilter() {
	query := m.filter.Value()
	visible := make([]int, 0, len(m.fields))
	if query == "" {
		for i := range m.fields {
			visible = append(visible, i)
		}
	} else {
		for _, match := range fuzzy.FindFrom(query, fieldSource(m.fields)) {
			visible = append(visible, match.Index)
		}
	}
	m.visible = visible
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m Model) current() *field.Field {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return m.fields[m.visible[m.cursor]]
}

// fieldSource adapts fields to fuzzy.Source.
type fieldSource []*field.Field

func (s fieldSource) String(i int) string {
	return s[i].Key() + " " + s[i].Title
}

func (s fieldSource) Len() int {
	return len(s)
}

func nextOption(f *field.Field) int {
	current := field.Stringify(f.Value)
	for i, o := range f.Options {
		if o.Value == current {
			return (i + 1) % len(f.Options)
		}
	}
	return 0
}

func listItems(v any) []any {
	items, _ := v.([]any)
	return items
}

func itemCount(f *field.Field) int {
	if f.Kind == schema.KindList {
		return len(listItems(f.Value))
	}
	return len(f.Options)
}

// errorText shows domain errors by their message.
func errorText(err error) string {
	var de *core.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
