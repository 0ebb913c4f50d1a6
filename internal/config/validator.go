package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/platform"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateSources(&cfg.Schema, &cfg.Presets)
	v.validateEditor(&cfg.Editor)
	v.validateServer(&cfg.Server)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}
}

func (v *Validator) validateSources(s *SchemaConfig, p *PresetsConfig) {
	if s.Path != "" {
		if info, err := os.Stat(s.Path); err != nil {
			v.addError("schema.path", s.Path, "file not readable")
		} else if info.IsDir() {
			v.addError("schema.path", s.Path, "must be a file")
		}
	}
	if p.Dir != "" {
		if info, err := os.Stat(p.Dir); err != nil {
			v.addError("presets.dir", p.Dir, "directory not readable")
		} else if !info.IsDir() {
			v.addError("presets.dir", p.Dir, "must be a directory")
		}
	}
	if p.Watch && p.Dir == "" {
		v.addError("presets.watch", p.Watch, "requires presets.dir")
	}
}

func (v *Validator) validateEditor(cfg *EditorConfig) {
	if strings.TrimSpace(cfg.App) == "" {
		v.addError("editor.app", cfg.App, "application name required")
	}

	switch cfg.Platform {
	case "", platform.Linux, platform.MacOS, platform.Windows:
	default:
		v.addError("editor.platform", cfg.Platform,
			fmt.Sprintf("must be empty or one of: %s, %s, %s", platform.Linux, platform.MacOS, platform.Windows))
	}

	seen := make(map[string]string)
	check := func(field string, keys []string) {
		for _, key := range keys {
			section, property, ok := strings.Cut(key, ".")
			if !ok || section == "" || property == "" {
				v.addError(field, key, "must be section.property")
				continue
			}
			if prev, dup := seen[key]; dup && prev != field {
				v.addError(field, key, "already specialized by "+prev)
				continue
			}
			seen[key] = field
		}
	}
	check("editor.multiselect", cfg.MultiSelect)
	check("editor.decimals", cfg.Decimals)
	check("editor.paths", cfg.Paths)
	check("editor.lists", cfg.Lists)
}

func (v *Validator) validateServer(cfg *ServerConfig) {
	if cfg.Host == "" {
		v.addError("server.host", cfg.Host, "host required")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		v.addError("server.port", cfg.Port, "must be between 1 and 65535")
	}
	if cfg.MaxSessions < 1 {
		v.addError("server.max_sessions", cfg.MaxSessions, "must be positive")
	}
	if cfg.EnableCORS && len(cfg.CORSOrigins) == 0 {
		v.addError("server.cors_origins", cfg.CORSOrigins, "at least one origin required when CORS is enabled")
	}
	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"server.read_timeout", cfg.ReadTimeout},
		{"server.write_timeout", cfg.WriteTimeout},
		{"server.idle_timeout", cfg.IdleTimeout},
		{"server.shutdown_timeout", cfg.ShutdownTimeout},
	}
	for _, t := range timeouts {
		if t.value < 0 {
			v.addError(t.field, t.value, "must not be negative")
		}
	}
}

// ValidateConfig is a convenience function that creates a validator and validates config.
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}
