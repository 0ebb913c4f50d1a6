package settings

import "strconv"

// Merge combines base with a partial override and returns a new tree. Both
// arguments are deep-copied first and are never modified.
//
// The rule applied at every level:
//   - if either side is not composite (mapping or list), the override wins
//     when it is defined, even when it is 0, false or ""; an absent override
//     falls back to base.
//   - if both sides are composite, every key of base is merged with the
//     override's value under the same key. Keys only the override has are
//     never introduced, so the result keeps the shape of base.
//
// Lists are composite too: a list merged against a list is merged
// positionally, element by element, and keeps the length of base. Lists are
// not replaced wholesale.
func Merge(base, override Tree) Tree {
	a := cloneMap(base)
	if a == nil {
		a = make(map[string]any)
	}
	b := cloneMap(override)
	if b == nil {
		b = make(map[string]any)
	}
	return Tree(mix(a, b, true).(map[string]any))
}

// mix resolves one position. defined is false when the override has no
// value at this position.
func mix(a, b any, defined bool) any {
	if !defined {
		return a
	}
	if !composite(a) || !composite(b) {
		return b
	}

	switch at := a.(type) {
	case map[string]any:
		for k, av := range at {
			bv, ok := index(b, k)
			at[k] = mix(av, bv, ok)
		}
	case []any:
		for i, av := range at {
			bv, ok := index(b, strconv.Itoa(i))
			at[i] = mix(av, bv, ok)
		}
	}
	return a
}

func composite(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// index looks key up in a composite value. Lists are indexed by the decimal
// form of the position, so a mapping and a list can be merged key-wise.
func index(v any, key string) (any, bool) {
	switch t := v.(type) {
	case map[string]any:
		val, ok := t[key]
		return val, ok
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(t) || strconv.Itoa(i) != key {
			return nil, false
		}
		return t[i], true
	}
	return nil, false
}
