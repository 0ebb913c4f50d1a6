// Package field maps schema entries onto editable controls. Given the schema
// and the current settings tree it decides the control kind, the value to
// display, the interpolated description and the advisory constraints of a
// field, and it coerces control input back into settings values.
//
// The resolver never rejects a value for being out of range: Min and Max are
// surfaced so the presentation layer can flag the field.
package field

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/platform"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

// ErrNotRendered marks an entry without a default. Such entries get no
// control; it is a normal skip, unlike a *core.SchemaLookupError.
var ErrNotRendered = errors.New("field has no default and is not rendered")

// DecimalStep is the input precision of decimal (currency-like) fields.
const DecimalStep = 0.00000001

// Constraints are the advisory bounds of a numeric field.
type Constraints struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step float64  `json:"step,omitempty"`
}

// InRange reports whether v satisfies Min and Max.
func (c Constraints) InRange(v float64) bool {
	if c.Min != nil && v < *c.Min {
		return false
	}
	if c.Max != nil && v > *c.Max {
		return false
	}
	return true
}

// Check returns a validation error describing the bounds when v is out of
// range. It is meant for inline display; callers decide whether to block.
func (c Constraints) Check(v float64) error {
	if c.InRange(v) {
		return nil
	}
	return core.ErrValidation(core.CodeInvalidNumber,
		fmt.Sprintf("Please provide a valid number (min: %s, max: %s)", bound(c.Min), bound(c.Max))).
		WithDetail("value", v)
}

func bound(b *float64) string {
	if b == nil {
		return ""
	}
	return formatNumber(*b)
}

// Field is a resolved, ready-to-render schema entry.
type Field struct {
	Section     string           `json:"section"`
	Property    string           `json:"property"`
	Title       string           `json:"title"`
	Kind        schema.FieldKind `json:"kind"`
	Value       any              `json:"value"`
	Description string           `json:"description"`
	Constraints Constraints      `json:"constraints"`
	Options     []Option         `json:"options,omitempty"`
	// Set is false when Value comes from the schema default.
	Set bool `json:"set"`
	// Raw is the stored or default value before any display transform.
	Raw any `json:"-"`
}

// Key returns the dotted section.property key.
func (f *Field) Key() string {
	return f.Section + "." + f.Property
}

// Checked reports the state of a flag: any truthy value is checked.
func (f *Field) Checked() bool {
	return truthy(f.Value)
}

// Selected reports whether option is part of a multi-select value.
func (f *Field) Selected(option string) bool {
	for _, v := range asList(f.Value) {
		if s, ok := v.(string); ok && s == option {
			return true
		}
	}
	return false
}

// Text returns the value as a text input shows it. Numbers fall back to 0 and
// text to the empty string.
func (f *Field) Text() string {
	switch f.Kind {
	case schema.KindNumber, schema.KindDecimal:
		if !truthy(f.Value) {
			return "0"
		}
		return Stringify(f.Value)
	case schema.KindFlag:
		if f.Checked() {
			return "true"
		}
		return "false"
	default:
		if !truthy(f.Value) {
			return ""
		}
		return Stringify(f.Value)
	}
}

// Resolver resolves fields against a schema.
type Resolver struct {
	schema *schema.Schema
	app    string
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger receiving missing-description diagnostics.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithApp sets the application name used to derive the base path.
func WithApp(app string) ResolverOption {
	return func(r *Resolver) {
		if app != "" {
			r.app = app
		}
	}
}

// NewResolver creates a resolver over s.
func NewResolver(s *schema.Schema, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		schema: s,
		app:    "lnd",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Schema returns the schema the resolver works on.
func (r *Resolver) Schema() *schema.Schema {
	return r.schema
}

// BasePath returns the base directory substituted for $BASE on platform.
func (r *Resolver) BasePath(p string) string {
	return platform.BasePath(p, r.app)
}

// FillDescription interpolates d with value. A missing description is logged
// with key and replaced by UnknownEntry. A mapping description yields the
// entry for value, the comma-joined entries for a list value, or its generic
// "value" entry. A plain description has every "{}" replaced by value.
func (r *Resolver) FillDescription(d schema.Description, value any, key string) string {
	return fillDescription(r.logger, d, value, key)
}

// Resolve resolves section.property against tree. It returns a
// *core.SchemaLookupError when the schema lacks the pair and ErrNotRendered
// when the entry has no default.
func (r *Resolver) Resolve(tree settings.Tree, section, property string) (*Field, error) {
	e, err := r.schema.Lookup(section, property)
	if err != nil {
		return nil, err
	}
	if !e.Renderable() {
		return nil, fmt.Errorf("%s.%s: %w", section, property, ErrNotRendered)
	}

	value, set := tree.Get(section, property)
	if !set {
		value = e.Default
	}
	value = settings.Clone(value)

	f := &Field{
		Section:  section,
		Property: property,
		Title:    e.Name,
		Kind:     e.Kind,
		Value:    value,
		Set:      set,
		Raw:      value,
		Constraints: Constraints{
			Min: e.Min,
			Max: e.Max,
		},
	}
	key := f.Key()

	switch e.Kind {
	case schema.KindEnum:
		f.Options = ParseOptions(e.Values)
		f.Description = r.FillDescription(selectDescription(e.Description, value), value, key)
	case schema.KindMultiSelect:
		f.Options = ParseOptions(e.Values)
		if len(asList(value)) > 0 {
			f.Description = r.FillDescription(e.Description, asList(value), key)
		}
	case schema.KindNumber:
		f.Constraints.Step = 1
		f.Description = r.FillDescription(e.Description, value, key)
	case schema.KindDecimal:
		f.Constraints.Step = DecimalStep
		f.Description = r.FillDescription(e.Description, value, key)
	case schema.KindPath:
		p := r.platformOf(tree)
		f.Value = TransformPath(value, r.BasePath(p), p)
		f.Description = r.FillDescription(e.Description, f.Value, key)
	case schema.KindList:
		f.Value = asList(value)
		f.Description = r.FillDescription(e.Description, Stringify(f.Value), key)
	default:
		f.Description = r.FillDescription(e.Description, value, key)
	}

	return f, nil
}

// Section is a resolved schema section.
type Section struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Fields      []*Field `json:"fields"`
}

// ResolveSection resolves every renderable entry of a section in document
// order, skipping entries without a default.
func (r *Resolver) ResolveSection(tree settings.Tree, name string) (*Section, error) {
	sec, ok := r.schema.Section(name)
	if !ok {
		return nil, core.ErrNotFound("section", name)
	}

	out := &Section{
		Name:        sec.Name,
		Title:       sec.Title,
		Description: sec.Description,
		Fields:      make([]*Field, 0, len(sec.Properties)),
	}
	for _, prop := range sec.Properties {
		f, err := r.Resolve(tree, sec.Name, prop)
		if errors.Is(err, ErrNotRendered) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, f)
	}
	return out, nil
}

// ResolveAll resolves every section of the schema in document order.
func (r *Resolver) ResolveAll(tree settings.Tree) ([]*Section, error) {
	sections := r.schema.Sections()
	out := make([]*Section, 0, len(sections))
	for _, sec := range sections {
		resolved, err := r.ResolveSection(tree, sec.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

func (r *Resolver) platformOf(tree settings.Tree) string {
	if p := tree.Platform(); p != "" {
		return p
	}
	return platform.Detect()
}

// TransformPath resolves the placeholders of a path value for a platform:
// the first "$LOCAL" becomes the local path token, then the first "$BASE"
// becomes base, and both separator styles are normalized to the platform's.
// Empty and non-string values are returned unchanged.
func TransformPath(value any, base, p string) any {
	s, ok := value.(string)
	if !ok || s == "" {
		return value
	}
	s = strings.Replace(s, "$LOCAL", platform.LocalPath(p), 1)
	s = strings.Replace(s, "$BASE", base, 1)
	s = platform.JoinPath(strings.Split(s, `\`), p)
	s = platform.JoinPath(strings.Split(s, "/"), p)
	return s
}

// selectDescription narrows a mapping description to the entry of the
// selected value. A plain description is used as is.
func selectDescription(d schema.Description, value any) schema.Description {
	if !d.IsMapping() {
		return d
	}
	if s, ok := d.Lookup(Stringify(value)); ok {
		return schema.Text(s)
	}
	return schema.Description{}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && t == t
	case int:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	return nil
}
