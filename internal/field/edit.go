package field

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

// Edit is the raw input a control emits. Which members are read depends on
// the field kind:
//
//	flag              Checked
//	enum-multiselect  Option, Checked
//	list              Index, Input
//	everything else   Input
type Edit struct {
	Input   *string `json:"input,omitempty"`
	Checked *bool   `json:"checked,omitempty"`
	Option  string  `json:"option,omitempty"`
	Index   *int    `json:"index,omitempty"`
}

// TextEdit is an Edit carrying text input.
func TextEdit(input string) Edit {
	return Edit{Input: &input}
}

// CheckEdit is an Edit carrying a checkbox state.
func CheckEdit(checked bool) Edit {
	return Edit{Checked: &checked}
}

// OptionEdit toggles one option of a multi-select.
func OptionEdit(option string, checked bool) Edit {
	return Edit{Option: option, Checked: &checked}
}

// ItemEdit sets one slot of a list.
func ItemEdit(index int, input string) Edit {
	return Edit{Index: &index, Input: &input}
}

// Apply coerces e into the value to store for f. Input that matches what the
// control currently displays yields the stored value unchanged.
func (f *Field) Apply(e Edit) (any, error) {
	switch f.Kind {
	case schema.KindFlag:
		checked, err := f.checkedInput(e)
		if err != nil {
			return nil, err
		}
		if checked == f.Checked() {
			return settings.Clone(f.Raw), nil
		}
		return CoerceFlag(checked), nil

	case schema.KindMultiSelect:
		if e.Checked == nil || e.Option == "" {
			return nil, invalidEdit(f, "multi-select edits need an option and its state")
		}
		if !f.hasOption(e.Option) {
			return nil, invalidValue(f, e.Option)
		}
		return ToggleOption(f.Value, e.Option, *e.Checked), nil

	case schema.KindList:
		if e.Index == nil {
			return nil, invalidEdit(f, "list edits need an index")
		}
		input := ""
		if e.Input != nil {
			input = *e.Input
		}
		return SetListItem(f.Value, *e.Index, input)
	}

	if e.Input == nil {
		return nil, invalidEdit(f, "missing input")
	}
	input := *e.Input
	if input == f.Text() {
		return settings.Clone(f.Raw), nil
	}

	switch f.Kind {
	case schema.KindNumber, schema.KindDecimal:
		n, err := CoerceNumber(input)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Key(), err)
		}
		return n, nil
	case schema.KindEnum:
		if !f.hasOption(input) {
			return nil, invalidValue(f, input)
		}
		return input, nil
	default:
		return input, nil
	}
}

func (f *Field) checkedInput(e Edit) (bool, error) {
	if e.Checked != nil {
		return *e.Checked, nil
	}
	if e.Input != nil {
		switch strings.TrimSpace(*e.Input) {
		case "1":
			return true, nil
		case "0", "":
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(*e.Input))
		if err != nil {
			return false, invalidValue(f, *e.Input)
		}
		return b, nil
	}
	return false, invalidEdit(f, "flag edits need a checked state")
}

func (f *Field) hasOption(value string) bool {
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// CoerceFlag converts a checkbox state into the stored value. Flags are
// written back as 1 or 0, never as booleans.
func CoerceFlag(checked bool) float64 {
	if checked {
		return 1
	}
	return 0
}

// CoerceNumber parses numeric input. Blank input is 0.
func CoerceNumber(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, core.ErrValidation(core.CodeInvalidNumber,
			fmt.Sprintf("%q is not a number", input)).WithCause(err)
	}
	return n, nil
}

// SetListItem returns a copy of list with slot index set to input. Empty
// input clears the slot to nil without reindexing the rest; an index past
// the end grows the list with nil holes.
func SetListItem(list any, index int, input string) ([]any, error) {
	if index < 0 {
		return nil, core.ErrValidation(core.CodeInvalidIndex,
			fmt.Sprintf("list index %d out of range", index))
	}
	items := asList(settings.Clone(list))
	for len(items) <= index {
		items = append(items, nil)
	}
	if input == "" {
		items[index] = nil
	} else {
		items[index] = input
	}
	return items, nil
}

// AppendListItem returns a copy of list with one empty slot appended.
func AppendListItem(list any) []any {
	items := asList(settings.Clone(list))
	out := make([]any, len(items), len(items)+1)
	copy(out, items)
	return append(out, "")
}

// ToggleOption returns a copy of the selection with option added when
// checked, or its first occurrence removed when not.
func ToggleOption(selection any, option string, checked bool) []any {
	items := asList(settings.Clone(selection))
	out := make([]any, 0, len(items)+1)
	found := -1
	for i, v := range items {
		if s, ok := v.(string); ok && s == option && found < 0 {
			found = i
		}
	}
	for i, v := range items {
		if !checked && i == found {
			continue
		}
		out = append(out, v)
	}
	if checked && found < 0 {
		out = append(out, option)
	}
	return out
}

func invalidEdit(f *Field, msg string) error {
	return core.ErrValidation(core.CodeInvalidValue, f.Key()+": "+msg)
}

func invalidValue(f *Field, v string) error {
	return core.ErrValidation(core.CodeInvalidValue,
		fmt.Sprintf("%s: %q is not a valid choice", f.Key(), v)).
		WithDetail("field", f.Key())
}
