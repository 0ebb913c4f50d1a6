// Package config loads the lndconf application configuration: logging, the
// schema and preset sources, editor layout and the HTTP server.
package config

import (
	"time"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
)

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Schema  SchemaConfig  `mapstructure:"schema"`
	Presets PresetsConfig `mapstructure:"presets"`
	Editor  EditorConfig  `mapstructure:"editor"`
	Server  ServerConfig  `mapstructure:"server"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchemaConfig selects the schema document. An empty path means the
// embedded LND schema.
type SchemaConfig struct {
	Path string `mapstructure:"path"`
}

// PresetsConfig configures preset sources.
type PresetsConfig struct {
	// Dir holds extra preset files (.yaml, .yml, .json, .toml).
	Dir string `mapstructure:"dir"`
	// Builtin enables the presets shipped with the binary.
	Builtin bool `mapstructure:"builtin"`
	// Watch reloads Dir while serving.
	Watch bool `mapstructure:"watch"`
}

// EditorConfig configures how fields are presented. The key lists name
// "section.property" entries rendered with a specialized control.
type EditorConfig struct {
	App         string   `mapstructure:"app"`
	Platform    string   `mapstructure:"platform"`
	MultiSelect []string `mapstructure:"multiselect"`
	Decimals    []string `mapstructure:"decimals"`
	Paths       []string `mapstructure:"paths"`
	Lists       []string `mapstructure:"lists"`
}

// Kinds returns the specializations as a key → kind map.
func (c EditorConfig) Kinds() map[string]schema.FieldKind {
	kinds := make(map[string]schema.FieldKind)
	add := func(keys []string, kind schema.FieldKind) {
		for _, k := range keys {
			kinds[k] = kind
		}
	}
	add(c.MultiSelect, schema.KindMultiSelect)
	add(c.Decimals, schema.KindDecimal)
	add(c.Paths, schema.KindPath)
	add(c.Lists, schema.KindList)
	return kinds
}

// ServerConfig configures the HTTP form API.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	EnableCORS      bool          `mapstructure:"enable_cors"`
	MaxSessions     int           `mapstructure:"max_sessions"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}
