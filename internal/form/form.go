// Package form is a live editing session over a settings tree. A Form owns
// the current tree, turns control input into stored values through the field
// resolver, and reports every change to its observers with the full tree.
//
// A Form is safe for concurrent use. Observers run while the form is locked
// and must not call back into it.
package form

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

// ChangeFunc receives the complete tree after a field edit.
type ChangeFunc func(tree settings.Tree)

// Form is an editing session.
type Form struct {
	mu       sync.RWMutex
	resolver *field.Resolver
	presets  *preset.Table
	defaults settings.Tree
	tree     settings.Tree
	onChange []ChangeFunc
	onPreset []preset.ApplyFunc
	logger   *slog.Logger
}

// Option configures a Form.
type Option func(*Form)

// WithOnChange registers an observer for field edits.
func WithOnChange(fn ChangeFunc) Option {
	return func(f *Form) {
		if fn != nil {
			f.onChange = append(f.onChange, fn)
		}
	}
}

// WithOnPreset registers an observer for applied presets.
func WithOnPreset(fn preset.ApplyFunc) Option {
	return func(f *Form) {
		if fn != nil {
			f.onPreset = append(f.onPreset, fn)
		}
	}
}

// WithTree starts the session from tree instead of the schema defaults.
func WithTree(tree settings.Tree) Option {
	return func(f *Form) {
		if tree != nil {
			f.tree = tree.Clone()
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a session whose tree starts from the schema defaults for
// platform. A nil table offers only the Defaults preset.
func New(r *field.Resolver, presets *preset.Table, platform string, opts ...Option) *Form {
	if presets == nil {
		presets, _ = preset.NewTable()
	}
	defaults := settings.Defaults(r.Schema(), platform)

	f := &Form{
		resolver: r,
		presets:  presets,
		defaults: defaults,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.tree == nil {
		f.tree = defaults.Clone()
	}
	return f
}

// Tree returns a copy of the current tree.
func (f *Form) Tree() settings.Tree {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.tree.Clone()
}

// Defaults returns a copy of the tree the session started from.
func (f *Form) Defaults() settings.Tree {
	return f.defaults.Clone()
}

// Presets returns the preset table offered by the session.
func (f *Form) Presets() *preset.Table {
	return f.presets
}

// Schema returns the schema behind the session.
func (f *Form) Schema() *schema.Schema {
	return f.resolver.Schema()
}

// Platform returns the platform selected in the current tree.
func (f *Form) Platform() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.tree.Platform()
}

// Field resolves one field against the current tree.
func (f *Form) Field(section, property string) (*field.Field, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.resolver.Resolve(f.tree, section, property)
}

// Section resolves one section against the current tree.
func (f *Form) Section(name string) (*field.Section, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.resolver.ResolveSection(f.tree, name)
}

// Sections resolves the whole form.
func (f *Form) Sections() ([]*field.Section, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.resolver.ResolveAll(f.tree)
}

// Edit applies control input to a field, stores the coerced value and
// returns the field resolved against the new tree. Invalid input leaves the
// tree untouched, and so does input that echoes the default of an unset
// field.
func (f *Form) Edit(section, property string, e field.Edit) (*field.Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fl, err := f.resolver.Resolve(f.tree, section, property)
	if err != nil {
		return nil, err
	}
	value, err := fl.Apply(e)
	if err != nil {
		return nil, err
	}
	if !fl.Set && reflect.DeepEqual(value, fl.Raw) {
		return fl, nil
	}
	return f.store(section, property, value)
}

// Set stores value as-is at section.property, bypassing coercion. The pair
// must resolve to a rendered field.
func (f *Form) Set(section, property string, value any) (*field.Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.resolver.Resolve(f.tree, section, property); err != nil {
		return nil, err
	}
	return f.store(section, property, value)
}

// ToggleOption checks or unchecks one option of a multi-select field.
func (f *Form) ToggleOption(section, property, option string, checked bool) (*field.Field, error) {
	return f.Edit(section, property, field.OptionEdit(option, checked))
}

// SetListItem replaces the item at index of a list field.
func (f *Form) SetListItem(section, property string, index int, input string) (*field.Field, error) {
	return f.Edit(section, property, field.ItemEdit(index, input))
}

// AppendListItem adds an empty item at the end of a list field.
func (f *Form) AppendListItem(section, property string) (*field.Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fl, err := f.resolver.Resolve(f.tree, section, property)
	if err != nil {
		return nil, err
	}
	if fl.Kind != schema.KindList {
		return nil, core.ErrValidation(core.CodeInvalidKind,
			fmt.Sprintf("%s is a %s field, not a list", fl.Key(), fl.Kind))
	}
	return f.store(section, property, field.AppendListItem(fl.Value))
}

// ApplyPreset asks c to confirm, then replaces the tree with the named preset
// merged over the session defaults. It reports whether the preset was
// applied; a declined confirmation changes nothing. c runs while the form is
// locked.
func (f *Form) ApplyPreset(name string, c preset.Confirmer) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	applied, err := f.presets.Apply(name, f.defaults, c, func(name string, merged settings.Tree) {
		f.tree = merged
		f.logger.Info("preset applied", slog.String("preset", name))
		for _, fn := range f.onPreset {
			fn(name, merged.Clone())
		}
	})
	if err != nil {
		return false, err
	}
	if !applied {
		f.logger.Debug("preset declined", slog.String("preset", name))
	}
	return applied, nil
}

func (f *Form) store(section, property string, value any) (*field.Field, error) {
	f.tree = settings.Set(f.tree, section, property, value)
	f.logger.Debug("field changed",
		slog.String("key", section+"."+property),
		slog.Any("value", value))
	for _, fn := range f.onChange {
		fn(f.tree.Clone())
	}
	return f.resolver.Resolve(f.tree, section, property)
}
