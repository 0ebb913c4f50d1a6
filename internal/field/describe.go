package field

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
)

// UnknownEntry replaces a description the schema does not provide.
const UnknownEntry = "unknown entry"

// Option is one choice of an enumerated field.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var optionPattern = regexp.MustCompile(`(.+)\s+\[(.+)]`)

// ParseOption splits an enumerated value of the form "Label [value]". A
// string without the bracketed part is used as both label and value.
func ParseOption(s string) Option {
	m := optionPattern.FindStringSubmatch(s)
	if m == nil {
		return Option{Name: s, Value: s}
	}
	return Option{Name: m[1], Value: m[2]}
}

// ParseOptions parses every enumerated value of an entry, in order.
func ParseOptions(values []string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = ParseOption(v)
	}
	return out
}

// FillDescription interpolates a description with a value and logs missing
// descriptions on the default logger. See Resolver.FillDescription.
func FillDescription(d schema.Description, value any, key string) string {
	return fillDescription(slog.Default(), d, value, key)
}

func fillDescription(logger *slog.Logger, d schema.Description, value any, key string) string {
	if d.IsZero() {
		logger.Warn("can't find description",
			slog.String("key", key),
			slog.String("value", Stringify(value)))
		return UnknownEntry
	}

	if d.IsMapping() {
		if list, ok := value.([]any); ok {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				if item == nil {
					continue
				}
				s, ok := d.Lookup(Stringify(item))
				if !ok {
					logger.Warn("can't find description",
						slog.String("key", key),
						slog.String("value", Stringify(item)))
					continue
				}
				parts = append(parts, s)
			}
			return strings.Join(parts, ",")
		}
		if s, ok := d.Lookup(Stringify(value)); ok {
			return s
		}
		s, _ := d.Lookup(schema.GenericKey)
		return s
	}

	replacement := ""
	if value != nil {
		replacement = Stringify(value)
	}
	return strings.ReplaceAll(d.String(), "{}", replacement)
}

// Stringify renders a settings value the way it appears in descriptions and
// text inputs: lists are comma-joined with holes left empty, whole numbers
// carry no decimal point and nil is empty.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case int:
		return strconv.Itoa(t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
