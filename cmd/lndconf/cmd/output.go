package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/fsutil"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

// writeTree prints a settings tree as JSON or YAML.
func writeTree(w io.Writer, tree settings.Tree, format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(tree)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

// readTree reads a settings tree from a JSON, YAML or TOML file. Both the
// bare tree printed by lndconf and a preset document are accepted.
func readTree(path string) (settings.Tree, error) {
	format := preset.FormatOf(path)
	if format == "" {
		return nil, fmt.Errorf("%s: unsupported file type", path)
	}
	data, err := fsutil.ReadFileScoped(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw map[string]any
	switch format {
	case preset.FormatJSON:
		err = json.Unmarshal(data, &raw)
	case preset.FormatTOML:
		err = toml.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if _, ok := raw["settings"]; ok {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		p, err := preset.Parse(data, format, name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return p.Settings, nil
	}

	tree := make(settings.Tree, len(raw))
	for section, body := range raw {
		values, ok := schema.Normalize(body).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: section %q must be a mapping", path, section)
		}
		tree[section] = values
	}
	return tree, nil
}
