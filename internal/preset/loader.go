package preset

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

//go:embed builtin
var builtinFS embed.FS

// Format is the encoding of a preset file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf returns the format implied by a file name, or "" when the
// extension is not a preset extension.
func FormatOf(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	}
	return ""
}

// document is the on-disk shape of a preset file. Name defaults to the file
// name without its extension.
type document struct {
	Name     string         `yaml:"name" toml:"name"`
	Settings map[string]any `yaml:"settings" toml:"settings"`
}

// Parse decodes a preset document. JSON is read by the YAML decoder.
func Parse(data []byte, format Format, fallbackName string) (Preset, error) {
	var doc document
	if format == FormatJSON {
		// YAML rejects the tab indentation JSON files often use.
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return Preset{}, invalidPreset(fallbackName, "decoding JSON").WithCause(err)
		}
		data = buf.Bytes()
	}
	switch format {
	case FormatYAML, FormatJSON:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return Preset{}, invalidPreset(fallbackName, "decoding YAML").WithCause(err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return Preset{}, invalidPreset(fallbackName, "decoding TOML").WithCause(err)
		}
	default:
		return Preset{}, invalidPreset(fallbackName, fmt.Sprintf("unsupported format %q", format))
	}

	name := strings.TrimSpace(doc.Name)
	if name == "" {
		name = fallbackName
	}
	if name == "" {
		return Preset{}, invalidPreset(fallbackName, "preset has no name")
	}
	if doc.Settings == nil {
		return Preset{}, invalidPreset(name, "missing settings mapping")
	}

	tree := make(settings.Tree, len(doc.Settings))
	for section, body := range doc.Settings {
		values, ok := schema.Normalize(body).(map[string]any)
		if !ok {
			return Preset{}, invalidPreset(name, fmt.Sprintf("section %q must be a mapping", section))
		}
		tree[section] = values
	}
	return Preset{Name: name, Settings: tree}, nil
}

// LoadFS reads every preset file of dir within fsys, in file name order.
// Files with other extensions are ignored.
func LoadFS(fsys fs.FS, dir string) ([]Preset, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading preset directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []Preset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format := FormatOf(entry.Name())
		if format == "" {
			continue
		}
		file := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("reading preset %s: %w", file, err)
		}
		p, err := Parse(data, format, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", file, err)
		}
		p.Source = file
		out = append(out, p)
	}
	return out, nil
}

// LoadDir reads every preset file of a directory on disk.
func LoadDir(dir string) ([]Preset, error) {
	presets, err := LoadFS(os.DirFS(dir), ".")
	if err != nil {
		return nil, err
	}
	for i := range presets {
		presets[i].Source = filepath.Join(dir, filepath.FromSlash(presets[i].Source))
	}
	return presets, nil
}

// Builtin returns the presets shipped with the binary.
func Builtin() ([]Preset, error) {
	return LoadFS(builtinFS, "builtin")
}

func invalidPreset(name, msg string) *core.DomainError {
	return core.ErrValidation(core.CodeInvalidPreset, msg).WithDetail("preset", name)
}
