// Package preset holds named partial settings trees. Applying a preset merges
// it over the schema defaults and replaces the working tree, after the user
// confirms the overwrite.
package preset

import (
	"fmt"
	"sort"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

// DefaultsName names the preset that restores the schema defaults.
const DefaultsName = "Defaults"

// SelectorDescription describes the preset selector control.
const SelectorDescription = "Load predefined config."

// Prompt is the confirmation asked before a preset overwrites the tree.
const Prompt = "Do you want to overwrite current config?"

// Preset is a named partial settings tree. Absent sections and properties
// inherit from the base tree.
type Preset struct {
	Name     string        `json:"name"`
	Settings settings.Tree `json:"settings"`
	// Source is the file the preset was read from, empty for Defaults.
	Source string `json:"source,omitempty"`
}

// Table is the ordered, immutable set of presets available to a form. It
// always starts with Defaults.
type Table struct {
	order   []string
	presets map[string]Preset
}

// NewTable builds a table from presets, in order, after Defaults. Duplicate
// names are rejected.
func NewTable(presets ...Preset) (*Table, error) {
	t := &Table{presets: make(map[string]Preset, len(presets)+1)}
	t.order = append(t.order, DefaultsName)
	t.presets[DefaultsName] = Preset{Name: DefaultsName, Settings: settings.Tree{}}

	for _, p := range presets {
		if p.Name == "" {
			return nil, core.ErrValidation(core.CodeInvalidPreset, "preset has no name")
		}
		if _, dup := t.presets[p.Name]; dup {
			return nil, core.ErrConflict(core.CodeInvalidPreset,
				fmt.Sprintf("duplicate preset %q", p.Name)).WithDetail("source", p.Source)
		}
		t.order = append(t.order, p.Name)
		t.presets[p.Name] = Preset{Name: p.Name, Settings: p.Settings.Clone(), Source: p.Source}
	}
	return t, nil
}

// Names returns the preset names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of presets, Defaults included.
func (t *Table) Len() int {
	return len(t.order)
}

// Get returns a copy of the named preset.
func (t *Table) Get(name string) (Preset, bool) {
	p, ok := t.presets[name]
	if !ok {
		return Preset{}, false
	}
	p.Settings = p.Settings.Clone()
	return p, true
}

// Resolve merges the named preset over base without asking for confirmation.
func (t *Table) Resolve(name string, base settings.Tree) (settings.Tree, error) {
	p, ok := t.presets[name]
	if !ok {
		return nil, core.ErrNotFound("preset", name)
	}
	return settings.Merge(base, p.Settings), nil
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// Approved is a Confirmer that always agrees, for non-interactive callers
// that obtained consent elsewhere.
var Approved Confirmer = ConfirmFunc(func(string) (bool, error) { return true, nil })

// Declined is a Confirmer that always refuses.
var Declined Confirmer = ConfirmFunc(func(string) (bool, error) { return false, nil })

// ApplyFunc receives the preset name and the merged tree.
type ApplyFunc func(name string, tree settings.Tree)

// Apply asks c to confirm, then merges the named preset over base and hands
// the result to onApply. It reports whether the preset was applied. On
// rejection nothing is merged and onApply is not called. An unknown name
// fails before the user is asked.
func (t *Table) Apply(name string, base settings.Tree, c Confirmer, onApply ApplyFunc) (bool, error) {
	if _, ok := t.presets[name]; !ok {
		return false, core.ErrNotFound("preset", name)
	}
	if c == nil {
		c = Declined
	}
	ok, err := c.Confirm(Prompt)
	if err != nil {
		return false, fmt.Errorf("confirming preset %s: %w", name, err)
	}
	if !ok {
		return false, nil
	}

	merged, err := t.Resolve(name, base)
	if err != nil {
		return false, err
	}
	if onApply != nil {
		onApply(name, merged)
	}
	return true, nil
}

// Unknown returns the section.property keys of the preset that the schema
// does not define, sorted. Merging drops them silently, so loaders report
// them.
func Unknown(p Preset, s *schema.Schema) []string {
	var out []string
	for section, body := range p.Settings {
		values, _ := body.(map[string]any)
		for property := range values {
			if _, err := s.Lookup(section, property); err != nil {
				out = append(out, section+"."+property)
			}
		}
	}
	sort.Strings(out)
	return out
}
