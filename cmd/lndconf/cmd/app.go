package cmd

import (
	"fmt"
	"log/slog"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/form"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/platform"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

// app holds what every form command needs, built from the loaded config.
type app struct {
	schema   *schema.Schema
	resolver *field.Resolver
	presets  *preset.Table
	platform string
}

// loadApp reads the schema, applies the editor specializations and builds
// the preset table. Preset keys the schema does not define are reported and
// ignored.
func loadApp() (*app, error) {
	var (
		s   *schema.Schema
		err error
	)
	if appCfg.Schema.Path != "" {
		s, err = schema.LoadFile(appCfg.Schema.Path)
	} else {
		s, err = schema.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	if err := s.SpecializeAll(appCfg.Editor.Kinds()); err != nil {
		return nil, fmt.Errorf("applying editor layout: %w", err)
	}

	table, err := loadPresets(s)
	if err != nil {
		return nil, err
	}

	p := appCfg.Editor.Platform
	if p == "" {
		p = platform.Detect()
	}
	logger.Debug("form ready",
		slog.String("platform", p),
		slog.Int("sections", len(s.Sections())),
		slog.Int("presets", table.Len()))

	return &app{
		schema: s,
		resolver: field.NewResolver(s,
			field.WithApp(appCfg.Editor.App),
			field.WithLogger(logger.Logger)),
		presets:  table,
		platform: p,
	}, nil
}

// loadPresets builds the preset table from the builtin presets and the
// configured directory. Keys the schema does not define are reported.
func loadPresets(s *schema.Schema) (*preset.Table, error) {
	var presets []preset.Preset
	if appCfg.Presets.Builtin {
		builtin, err := preset.Builtin()
		if err != nil {
			return nil, fmt.Errorf("loading builtin presets: %w", err)
		}
		presets = append(presets, builtin...)
	}
	if appCfg.Presets.Dir != "" {
		extra, err := preset.LoadDir(appCfg.Presets.Dir)
		if err != nil {
			return nil, fmt.Errorf("loading presets: %w", err)
		}
		presets = append(presets, extra...)
	}
	for _, p := range presets {
		if unknown := preset.Unknown(p, s); len(unknown) > 0 {
			logger.WithPreset(p.Name).Warn("preset sets unknown keys",
				slog.String("source", p.Source),
				slog.Any("keys", unknown))
		}
	}
	table, err := preset.NewTable(presets...)
	if err != nil {
		return nil, fmt.Errorf("building preset table: %w", err)
	}
	return table, nil
}

// defaults returns the schema defaults for the selected platform.
func (a *app) defaults() settings.Tree {
	return settings.Defaults(a.schema, a.platform)
}

// startTree completes a loaded tree with the selected platform when it
// names none.
func (a *app) startTree(start settings.Tree) settings.Tree {
	if start.Platform() == "" {
		return settings.Set(start, schema.InternalSection, schema.PlatformProperty, a.platform)
	}
	return start
}

// newForm starts an editing session, from start when it is non-nil.
func (a *app) newForm(start settings.Tree, opts ...form.Option) *form.Form {
	if start != nil {
		start = a.startTree(start)
	}
	opts = append([]form.Option{form.WithLogger(logger.Logger), form.WithTree(start)}, opts...)
	return form.New(a.resolver, a.presets, a.platform, opts...)
}
