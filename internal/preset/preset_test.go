package preset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/core"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/platform"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(Preset{
		Name: "Mainnet",
		Settings: settings.Tree{
			"bitcoin": map[string]any{"network": "mainnet"},
		},
	})
	require.NoError(t, err)
	return table
}

func TestNewTable_DefaultsFirst(t *testing.T) {
	t.Parallel()

	table := testTable(t)
	assert.Equal(t, []string{DefaultsName, "Mainnet"}, table.Names())
	assert.Equal(t, 2, table.Len())

	p, ok := table.Get(DefaultsName)
	require.True(t, ok)
	assert.Empty(t, p.Settings)
}

func TestNewTable_Duplicate(t *testing.T) {
	t.Parallel()

	_, err := NewTable(Preset{Name: "A", Settings: settings.Tree{}}, Preset{Name: "A", Settings: settings.Tree{}})
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatConflict))

	_, err = NewTable(Preset{Name: DefaultsName})
	assert.Error(t, err)

	_, err = NewTable(Preset{})
	assert.True(t, core.IsCategory(err, core.ErrCatValidation))
}

func TestTable_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	table := testTable(t)
	p, _ := table.Get("Mainnet")
	p.Settings["bitcoin"].(map[string]any)["network"] = "regtest"

	again, _ := table.Get("Mainnet")
	assert.Equal(t, "mainnet", again.Settings["bitcoin"].(map[string]any)["network"])
}

func TestApply_Confirmed(t *testing.T) {
	t.Parallel()

	table := testTable(t)
	base := settings.Tree{"bitcoin": map[string]any{"network": "testnet", "node": "btcd"}}
	before := base.Clone()

	var gotName string
	var gotTree settings.Tree
	applied, err := table.Apply("Mainnet", base, Approved, func(name string, tree settings.Tree) {
		gotName, gotTree = name, tree
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "Mainnet", gotName)
	assert.Equal(t, settings.Tree{"bitcoin": map[string]any{"network": "mainnet", "node": "btcd"}}, gotTree)
	assert.True(t, settings.Equal(before, base), "base must not change")
}

func TestApply_Rejected(t *testing.T) {
	t.Parallel()

	table := testTable(t)
	called := false

	var prompt string
	c := ConfirmFunc(func(p string) (bool, error) {
		prompt = p
		return false, nil
	})
	applied, err := table.Apply("Mainnet", settings.Tree{}, c, func(string, settings.Tree) { called = true })
	require.NoError(t, err)
	assert.False(t, applied)
	assert.False(t, called)
	assert.Equal(t, "Do you want to overwrite current config?", prompt)

	applied, err = table.Apply("Mainnet", settings.Tree{}, nil, func(string, settings.Tree) { called = true })
	require.NoError(t, err)
	assert.False(t, applied, "no confirmer means no consent")
	assert.False(t, called)
}

func TestApply_ConfirmerError(t *testing.T) {
	t.Parallel()

	boom := errors.New("tty closed")
	_, err := testTable(t).Apply("Mainnet", settings.Tree{}, ConfirmFunc(func(string) (bool, error) {
		return false, boom
	}), nil)
	assert.ErrorIs(t, err, boom)
}

func TestApply_UnknownPreset(t *testing.T) {
	t.Parallel()

	asked := false
	c := ConfirmFunc(func(string) (bool, error) {
		asked = true
		return true, nil
	})
	_, err := testTable(t).Apply("Nope", settings.Tree{}, c, nil)
	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatNotFound))
	assert.False(t, asked)
}

func TestResolve_DefaultsRestoresBase(t *testing.T) {
	t.Parallel()

	s, err := schema.Default()
	require.NoError(t, err)
	defaults := settings.Defaults(s, platform.Linux)

	got, err := testTable(t).Resolve(DefaultsName, defaults)
	require.NoError(t, err)
	assert.True(t, settings.Equal(defaults, got))
}

func TestParse_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"yaml", FormatYAML, "name: P\nsettings:\n  app:\n    maxpendingchannels: 5\n    listen: [a]\n"},
		{"json", FormatJSON, "{\n\t\"name\": \"P\",\n\t\"settings\": {\"app\": {\"maxpendingchannels\": 5, \"listen\": [\"a\"]}}\n}"},
		{"toml", FormatTOML, "name = \"P\"\n[settings.app]\nmaxpendingchannels = 5\nlisten = [\"a\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse([]byte(tt.data), tt.format, "file")
			require.NoError(t, err)
			assert.Equal(t, "P", p.Name)
			assert.Equal(t, settings.Tree{
				"app": map[string]any{"maxpendingchannels": 5.0, "listen": []any{"a"}},
			}, p.Settings)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("name: x\n"), FormatYAML, "x")
	assert.True(t, core.IsCategory(err, core.ErrCatValidation), "missing settings")

	_, err = Parse([]byte("settings:\n  app: flat\n"), FormatYAML, "x")
	assert.Error(t, err, "section must be a mapping")

	_, err = Parse([]byte("= nope"), FormatTOML, "x")
	assert.Error(t, err)

	_, err = Parse([]byte("{"), FormatJSON, "x")
	assert.Error(t, err)

	_, err = Parse([]byte("settings: {}"), Format("ini"), "x")
	assert.Error(t, err)

	p, err := Parse([]byte("settings: {}\n"), FormatYAML, "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", p.Name)
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatYAML, FormatOf("a.yaml"))
	assert.Equal(t, FormatYAML, FormatOf("a.YML"))
	assert.Equal(t, FormatJSON, FormatOf("dir/a.json"))
	assert.Equal(t, FormatTOML, FormatOf("a.toml"))
	assert.Equal(t, Format(""), FormatOf("README.md"))
}

func TestLoadFS_SortedAndFiltered(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"p/b.yaml":     {Data: []byte("settings:\n  app: {alias: b}\n")},
		"p/a.toml":     {Data: []byte("[settings.app]\nalias = \"a\"\n")},
		"p/notes.md":   {Data: []byte("# not a preset")},
		"p/sub/c.yaml": {Data: []byte("settings: {}\n")},
	}

	presets, err := LoadFS(fsys, "p")
	require.NoError(t, err)
	require.Len(t, presets, 2)
	assert.Equal(t, "a", presets[0].Name)
	assert.Equal(t, "p/a.toml", presets[0].Source)
	assert.Equal(t, "b", presets[1].Name)
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.json"), []byte(`{"name":"X","settings":{"bitcoin":{"network":"simnet"}}}`), 0o600))

	presets, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, presets, 1)
	assert.Equal(t, "X", presets[0].Name)
	assert.Equal(t, filepath.Join(dir, "x.json"), presets[0].Source)

	_, err = LoadDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestBuiltin(t *testing.T) {
	t.Parallel()

	presets, err := Builtin()
	require.NoError(t, err)

	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Mainnet bitcoind", "Neutrino testnet", "Routing node"}, names)

	s, err := schema.Default()
	require.NoError(t, err)
	for _, p := range presets {
		assert.Empty(t, Unknown(p, s), p.Name)
	}

	table, err := NewTable(presets...)
	require.NoError(t, err)
	merged, err := table.Resolve("Routing node", settings.Defaults(s, platform.Linux))
	require.NoError(t, err)
	v, _ := merged.Get("autopilot", "heuristic")
	assert.Equal(t, []any{"top_centrality"}, v)
	v, _ = merged.Get("bitcoin", "basefee")
	assert.Equal(t, 0.0, v)
}

func TestUnknown(t *testing.T) {
	t.Parallel()

	s, err := schema.Default()
	require.NoError(t, err)

	p := Preset{Name: "x", Settings: settings.Tree{
		"app":   map[string]any{"alias": "a", "bogus": 1.0},
		"extra": map[string]any{"k": "v"},
	}}
	assert.Equal(t, []string{"app.bogus", "extra.k"}, Unknown(p, s))
}
