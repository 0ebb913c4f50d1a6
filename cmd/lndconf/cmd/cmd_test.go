package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/config"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/testutil"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/tui"
)

// execute runs the root command with args in an isolated directory and
// returns stdout. Commands share package state, so these tests are not
// parallel.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("CI", "true")
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(append([]string{"--platform", "Linux"}, args...))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("v1.2.3", "abc123def", "2026-01-15")
	t.Cleanup(func() { SetVersion("", "", "") })

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lndconf v1.2.3")
	assert.Contains(t, out, "commit: abc123def")
	assert.Contains(t, out, "built:  2026-01-15")
}

func TestFieldsCommand(t *testing.T) {
	t.Run("plain table", func(t *testing.T) {
		out, err := execute(t, "", "fields", "--section", "neutrino")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.NotEmpty(t, lines)
		assert.True(t, strings.HasPrefix(lines[0], "KEY"))
		assert.Contains(t, out, "neutrino.maxpeers")
		assert.Contains(t, out, "Max number of inbound and outbound peers: 8")
		assert.NotContains(t, out, "autopilot.")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "", "fields", "-s", "app", "-o", "json")
		require.NoError(t, err)

		var sections []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &sections))
		require.Len(t, sections, 1)
		assert.Equal(t, "app", sections[0]["name"])
	})

	t.Run("flags show as checkboxes", func(t *testing.T) {
		out, err := execute(t, "", "fields", "-s", "app")
		require.NoError(t, err)
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "app.nobootstrap ") {
				assert.Contains(t, line, "[ ]")
				return
			}
		}
		t.Errorf("app.nobootstrap not listed:\n%s", out)
	})

	t.Run("from file", func(t *testing.T) {
		from := testutil.TempFile(t, "settings.json", `{"neutrino": {"maxpeers": 12}}`)
		out, err := execute(t, "", "fields", "-s", "neutrino", "--from", from)
		require.NoError(t, err)
		assert.Contains(t, out, "Max number of inbound and outbound peers: 12")
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := execute(t, "", "fields", "-s", "nope")
		assert.Error(t, err)
	})

	t.Run("bad output format", func(t *testing.T) {
		_, err := execute(t, "", "fields", "-o", "xml")
		assert.ErrorContains(t, err, "unknown output format")
	})
}

func TestDefaultsCommand(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "", "defaults")
		require.NoError(t, err)

		var tree map[string]map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &tree))
		assert.Equal(t, 8.0, tree["neutrino"]["maxpeers"])
		assert.Equal(t, "Linux", tree["__internal"]["platform"])
		assert.NotContains(t, tree["app"], "profile")
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, "", "defaults", "-o", "yaml")
		require.NoError(t, err)

		var tree map[string]map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
		assert.Equal(t, 8, tree["neutrino"]["maxpeers"])
	})
}

func TestDescribeCommand(t *testing.T) {
	out, err := execute(t, "", "describe", "neutrino")
	require.NoError(t, err)

	assert.Contains(t, out, "(`neutrino.maxpeers`)")
	assert.Contains(t, out, "- **Value:** `8`\n")
	assert.Contains(t, out, "- **Range:** 1 to 125")
	assert.NotContains(t, out, "\x1b[")
}

func TestPresetList(t *testing.T) {
	out, err := execute(t, "", "preset", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Load predefined config.")
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[2], "Defaults"), "Defaults is listed first")
	assert.Contains(t, out, "Neutrino testnet")
}

func TestPresetApply(t *testing.T) {
	t.Run("yes", func(t *testing.T) {
		out, err := execute(t, "", "preset", "apply", "Neutrino testnet", "--yes")
		require.NoError(t, err)

		var tree map[string]map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &tree))
		assert.Equal(t, 16.0, tree["neutrino"]["maxpeers"])
		assert.Equal(t, "neutrino", tree["bitcoin"]["node"])
		// Untouched sections keep their defaults.
		assert.Equal(t, "0.0.0.0:9735", tree["app"]["listen"].([]any)[0])
	})

	t.Run("confirmed on stdin", func(t *testing.T) {
		out, err := execute(t, "y\n", "preset", "apply", "Neutrino testnet", "-o", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "maxpeers: 16")
	})

	t.Run("declined on stdin", func(t *testing.T) {
		out, err := execute(t, "n\n", "preset", "apply", "Neutrino testnet")
		assert.ErrorIs(t, err, ErrPresetDeclined)
		assert.Empty(t, out)
	})

	t.Run("no answer declines", func(t *testing.T) {
		_, err := execute(t, "", "preset", "apply", "Neutrino testnet")
		assert.ErrorIs(t, err, ErrPresetDeclined)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := execute(t, "", "preset", "apply", "nope", "--yes")
		assert.Error(t, err)
	})
}

func TestInitCommand(t *testing.T) {
	out, err := execute(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(config.DirName, "config.yaml"))

	data, err := os.ReadFile(filepath.Join(config.DirName, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigYAML, string(data))

	// Still inside the same directory: a second run must not overwrite.
	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"init"})
	err = rootCmd.Execute()
	assert.ErrorIs(t, err, config.ErrConfigExists)

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"init", "--force"})
	assert.NoError(t, rootCmd.Execute())
}

func TestEditCommand_NotInteractive(t *testing.T) {
	_, err := execute(t, "", "edit")
	assert.ErrorIs(t, err, tui.ErrNotInteractive)
}

func TestReadTree(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    float64
	}{
		{"bare json", "s.json", `{"neutrino": {"maxpeers": 12}}`, 12},
		{"bare yaml", "s.yaml", "neutrino:\n  maxpeers: 13\n", 13},
		{"bare toml", "s.toml", "[neutrino]\nmaxpeers = 14\n", 14},
		{"preset document", "p.yml", "name: mine\nsettings:\n  neutrino:\n    maxpeers: 15\n", 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := readTree(testutil.TempFile(t, tt.file, tt.content))
			require.NoError(t, err)
			v, ok := tree.Get("neutrino", "maxpeers")
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := readTree(testutil.TempFile(t, "s.ini", "x=1"))
		assert.ErrorContains(t, err, "unsupported file type")
	})

	t.Run("section not a mapping", func(t *testing.T) {
		_, err := readTree(testutil.TempFile(t, "s.json", `{"neutrino": 3}`))
		assert.ErrorContains(t, err, "must be a mapping")
	})
}

func TestWriteTree_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := writeTree(&buf, nil, "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var prompt bytes.Buffer
		got, err := promptConfirmer(strings.NewReader(tt.input), &prompt).Confirm("Overwrite?")
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("answer %q: got %v, want %v", tt.input, got, tt.want)
		}
		assert.Equal(t, "Overwrite? [y/N] ", prompt.String())
	}
}
