// Package schema loads the static document describing every configurable
// setting: its name, description, default, enumerated values and bounds.
//
// The document is a mapping from section name to a mapping from property
// name to entry. A section may also carry the string keys "section" (title)
// and "description"; those are metadata and never fields. JSON documents are
// read through the YAML decoder so that key order is preserved.
//
// Each entry's FieldKind is computed once at load time. Callers that need a
// specialized control (multi-select, decimal, path, list) apply it with
// Specialize before the schema is shared.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/fsutil"
)

// InternalSection holds UI-only state such as the target platform.
const InternalSection = "__internal"

// PlatformProperty is the property of InternalSection selecting the platform.
const PlatformProperty = "platform"

//go:embed lnd.json
var lndDocument []byte

// Schema is an immutable, ordered view of the schema document.
type Schema struct {
	order    []string
	sections map[string]*Section
}

// Default returns the embedded LND schema.
func Default() (*Schema, error) {
	return Parse(lndDocument)
}

// LoadFile reads a schema document from path. Both JSON and YAML are accepted.
func LoadFile(path string) (*Schema, error) {
	data, err := fsutil.ReadFileScoped(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing schema %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a schema document.
func Parse(data []byte) (*Schema, error) {
	// Compacting drops tab indentation, which YAML rejects.
	if json.Valid(data) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err == nil {
			data = buf.Bytes()
		}
	}

	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, invalid("empty schema document")
		}
		return nil, invalid("decoding document").WithCause(err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, invalid("schema root must be a mapping")
	}

	s := &Schema{sections: make(map[string]*Section)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		body := root.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, invalid(fmt.Sprintf("section %q must be a mapping", name))
		}
		sec, err := parseSection(name, body)
		if err != nil {
			return nil, err
		}
		if _, dup := s.sections[name]; !dup {
			s.order = append(s.order, name)
		}
		s.sections[name] = sec
	}
	return s, nil
}

func parseSection(name string, body *yaml.Node) (*Section, error) {
	sec := &Section{Name: name, Entries: make(map[string]*Entry)}
	for i := 0; i+1 < len(body.Content); i += 2 {
		key := body.Content[i].Value
		val := body.Content[i+1]

		if val.Kind == yaml.ScalarNode {
			switch key {
			case "section":
				sec.Title = val.Value
			case "description":
				sec.Description = val.Value
			}
			continue
		}
		if val.Kind != yaml.MappingNode {
			continue
		}

		entry, err := parseEntry(val)
		if err != nil {
			return nil, invalid(fmt.Sprintf("entry %s.%s", name, key)).WithCause(err)
		}
		if _, dup := sec.Entries[key]; !dup {
			sec.Properties = append(sec.Properties, key)
		}
		sec.Entries[key] = entry
	}
	return sec, nil
}

type rawEntry struct {
	Name        string    `yaml:"name"`
	Description yaml.Node `yaml:"description"`
	Default     yaml.Node `yaml:"default"`
	Values      yaml.Node `yaml:"values"`
	Min         *float64  `yaml:"min"`
	Max         *float64  `yaml:"max"`
}

func parseEntry(node *yaml.Node) (*Entry, error) {
	var raw rawEntry
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}

	e := &Entry{Name: raw.Name, Min: raw.Min, Max: raw.Max}

	if present(&raw.Default) {
		var v any
		if err := raw.Default.Decode(&v); err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		e.Default = Normalize(v)
		e.HasDefault = true
	}

	if present(&raw.Values) {
		if err := raw.Values.Decode(&e.Values); err != nil {
			return nil, fmt.Errorf("values: %w", err)
		}
		e.HasValues = true
	}

	switch {
	case !present(&raw.Description):
	case raw.Description.Kind == yaml.MappingNode:
		var m map[string]string
		if err := raw.Description.Decode(&m); err != nil {
			return nil, fmt.Errorf("description: %w", err)
		}
		e.Description = Mapping(m)
	default:
		e.Description = Text(raw.Description.Value)
	}

	e.Kind = inferKind(e)
	return e, nil
}

// present reports a key that exists and is not null.
func present(n *yaml.Node) bool {
	return n.Kind != 0 && n.Tag != "!!null"
}

func invalid(msg string) *core.DomainError {
	return core.ErrValidation(core.CodeInvalidSchema, msg)
}

// Normalize converts decoded document values into the settings value model:
// every number becomes float64 and every mapping map[string]any.
func Normalize(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// Sections returns the sections in document order.
func (s *Schema) Sections() []*Section {
	out := make([]*Section, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.sections[name])
	}
	return out
}

// Section returns the named section.
func (s *Schema) Section(name string) (*Section, bool) {
	sec, ok := s.sections[name]
	return sec, ok
}

// Lookup returns the entry for section.property. A missing pair is a
// *core.SchemaLookupError.
func (s *Schema) Lookup(section, property string) (*Entry, error) {
	sec, ok := s.sections[section]
	if !ok {
		return nil, &core.SchemaLookupError{Section: section, Property: property}
	}
	e, ok := sec.Entries[property]
	if !ok {
		return nil, &core.SchemaLookupError{Section: section, Property: property}
	}
	return e, nil
}

// Specialize replaces the inferred kind of the entry named by key
// ("section.property") with kind.
func (s *Schema) Specialize(key string, kind FieldKind) error {
	section, property, ok := strings.Cut(key, ".")
	if !ok {
		return core.ErrValidation(core.CodeInvalidKind, fmt.Sprintf("field key %q must be section.property", key))
	}
	e, err := s.Lookup(section, property)
	if err != nil {
		return err
	}
	base := inferKind(e)
	if !Specializes(base, kind) {
		return core.ErrValidation(core.CodeInvalidKind,
			fmt.Sprintf("%s: %s field cannot be rendered as %s", key, base, kind))
	}
	e.Kind = kind
	return nil
}

// SpecializeAll applies every key → kind pair of kinds.
func (s *Schema) SpecializeAll(kinds map[string]FieldKind) error {
	for key, kind := range kinds {
		if err := s.Specialize(key, kind); err != nil {
			return err
		}
	}
	return nil
}
