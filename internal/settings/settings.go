// Package settings models the live configuration tree: a mapping from section
// name to a mapping from property name to value. A property absent from its
// section means "use the schema default".
//
// Values follow the JSON data model: string, float64, bool, nil, []any and
// map[string]any. Trees are treated as immutable; Set returns a new tree that
// shares every section it did not touch.
package settings

import (
	"reflect"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
)

// Tree is a settings tree keyed by section name.
type Tree map[string]any

// Section returns the named section mapping, or nil.
func (t Tree) Section(name string) map[string]any {
	sec, _ := t[name].(map[string]any)
	return sec
}

// Get returns the value stored at section.property. The boolean is false
// when the property is absent (undefined).
func (t Tree) Get(section, property string) (any, bool) {
	sec := t.Section(section)
	if sec == nil {
		return nil, false
	}
	v, ok := sec[property]
	return v, ok
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	return Tree(cloneMap(t))
}

// Set returns a new tree with section.property set to a copy of value. The
// top-level map and the targeted section are new; other sections are shared.
func Set(t Tree, section, property string, value any) Tree {
	out := make(Tree, len(t)+1)
	for k, v := range t {
		out[k] = v
	}

	old := t.Section(section)
	sec := make(map[string]any, len(old)+1)
	for k, v := range old {
		sec[k] = v
	}
	sec[property] = Clone(value)
	out[section] = sec
	return out
}

// Equal reports deep equality of two trees.
func Equal(a, b Tree) bool {
	return reflect.DeepEqual(map[string]any(a), map[string]any(b))
}

// Defaults builds the initial tree from the schema: every renderable entry
// gets a copy of its default. The internal platform selector, when the
// schema has one, is set to platform instead of its schema default.
func Defaults(s *schema.Schema, platform string) Tree {
	t := make(Tree)
	for _, sec := range s.Sections() {
		values := make(map[string]any, len(sec.Properties))
		for _, prop := range sec.Properties {
			e := sec.Entries[prop]
			if !e.Renderable() {
				continue
			}
			values[prop] = Clone(e.Default)
		}
		t[sec.Name] = values
	}

	if platform != "" {
		if sec := t.Section(schema.InternalSection); sec != nil {
			if _, ok := sec[schema.PlatformProperty]; ok {
				sec[schema.PlatformProperty] = platform
			}
		}
	}
	return t
}

// Platform returns the platform tag held by the internal section.
func (t Tree) Platform() string {
	v, _ := t.Get(schema.InternalSection, schema.PlatformProperty)
	s, _ := v.(string)
	return s
}

// Clone returns a deep copy of a settings value.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Tree:
		return Tree(cloneMap(t))
	case []any:
		return cloneSlice(t)
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}

func cloneSlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = Clone(v)
	}
	return out
}
