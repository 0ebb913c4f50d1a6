package schema

import (
	"fmt"
	"sort"
)

// FieldKind tags how a schema entry is edited. The first four kinds are
// inferred from the entry; the others are caller-selected specializations.
type FieldKind string

const (
	KindEnum        FieldKind = "enum-select"
	KindFlag        FieldKind = "flag"
	KindNumber      FieldKind = "number"
	KindText        FieldKind = "text"
	KindMultiSelect FieldKind = "enum-multiselect"
	KindDecimal     FieldKind = "decimal"
	KindPath        FieldKind = "path"
	KindList        FieldKind = "list"
)

// ParseKind converts a kind name into a FieldKind.
func ParseKind(s string) (FieldKind, error) {
	switch k := FieldKind(s); k {
	case KindEnum, KindFlag, KindNumber, KindText,
		KindMultiSelect, KindDecimal, KindPath, KindList:
		return k, nil
	case "multiselect":
		return KindMultiSelect, nil
	case "select", "enum":
		return KindEnum, nil
	}
	return "", fmt.Errorf("unknown field kind %q", s)
}

// Specializes reports whether special may replace the inferred kind base.
func Specializes(base, special FieldKind) bool {
	if base == special {
		return true
	}
	switch special {
	case KindMultiSelect:
		return base == KindEnum
	case KindDecimal:
		return base == KindNumber
	case KindPath, KindList:
		return base == KindText
	}
	return false
}

// Description is either a plain template string or a mapping from a value
// to its description. A mapping may carry a generic entry under "value".
type Description struct {
	text    string
	mapping map[string]string
	mapped  bool
	set     bool
}

// GenericKey is the mapping key holding the fallback description.
const GenericKey = "value"

// Text creates a plain template description.
func Text(s string) Description {
	return Description{text: s, set: true}
}

// Mapping creates a value-keyed description.
func Mapping(m map[string]string) Description {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Description{mapping: cp, mapped: true, set: true}
}

// IsZero reports an absent or empty description.
func (d Description) IsZero() bool {
	return !d.set || (!d.mapped && d.text == "")
}

// IsMapping reports whether the description is value-keyed.
func (d Description) IsMapping() bool {
	return d.mapped
}

// String returns the template text of a plain description.
func (d Description) String() string {
	return d.text
}

// Lookup returns the mapped description for key.
func (d Description) Lookup(key string) (string, bool) {
	if !d.mapped {
		return "", false
	}
	s, ok := d.mapping[key]
	return s, ok
}

// Keys returns the mapping keys in sorted order.
func (d Description) Keys() []string {
	keys := make([]string, 0, len(d.mapping))
	for k := range d.mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entry describes one configurable property.
type Entry struct {
	Name        string
	Description Description
	// Default is nil when HasDefault is false. Numbers are float64, lists
	// []any and objects map[string]any.
	Default    any
	HasDefault bool
	// Values lists enumerated options as "Label [value]" strings.
	Values    []string
	HasValues bool
	Min       *float64
	Max       *float64
	// Kind is inferred at load time and may be specialized afterwards.
	Kind FieldKind
}

// Renderable reports whether the entry has a default and so gets a control.
func (e *Entry) Renderable() bool {
	return e.HasDefault
}

// inferKind applies the dispatch order: values, boolean, number, text.
func inferKind(e *Entry) FieldKind {
	if e.HasValues {
		return KindEnum
	}
	switch e.Default.(type) {
	case bool:
		return KindFlag
	case float64:
		return KindNumber
	default:
		return KindText
	}
}

// Section groups the entries of one settings section.
type Section struct {
	Name        string
	Title       string
	Description string
	// Properties holds entry names in document order.
	Properties []string
	Entries    map[string]*Entry
}

// Entry returns the named entry.
func (s *Section) Entry(property string) (*Entry, bool) {
	e, ok := s.Entries[property]
	return e, ok
}
