package clip

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFake = errors.New("unavailable")

func failNative(string) error { return errFake }

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestCopy_NativeFirst(t *testing.T) {
	t.Parallel()
	var got string
	var term bytes.Buffer
	c := New(
		WithNative(func(s string) error { got = s; return nil }),
		WithTerminal(&term, func() bool { return true }),
		WithGetenv(env(nil)),
	)

	res, err := c.Copy("listen=0.0.0.0:9735")
	require.NoError(t, err)
	assert.Equal(t, MethodNative, res.Method)
	assert.Equal(t, "listen=0.0.0.0:9735", got)
	assert.Zero(t, term.Len(), "terminal must not be written when native succeeds")
}

func TestCopy_OSC52Fallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		env    map[string]string
		prefix string
	}{
		{"plain", nil, "\x1b]52;c;"},
		{"tmux", map[string]string{"TMUX": "1", "STY": "1"}, "\x1bPtmux;"},
		{"screen", map[string]string{"STY": "1"}, "\x1bP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var term bytes.Buffer
			c := New(
				WithNative(failNative),
				WithTerminal(&term, func() bool { return true }),
				WithGetenv(env(tt.env)),
			)

			res, err := c.Copy("debuglevel=info")
			require.NoError(t, err)
			assert.Equal(t, MethodOSC52, res.Method)
			if !strings.HasPrefix(term.String(), tt.prefix) {
				t.Errorf("sequence %q does not start with %q", term.String(), tt.prefix)
			}
		})
	}
}

func TestCopy_FileFallback(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	var term bytes.Buffer
	c := New(
		WithNative(failNative),
		WithTerminal(&term, func() bool { return false }),
		WithGetenv(env(nil)),
		WithTempDir(dir),
	)

	res, err := c.Copy("maxpeers=16")
	require.NoError(t, err)
	assert.Equal(t, MethodFile, res.Method)
	assert.Equal(t, dir, filepath.Dir(res.FilePath))
	assert.Contains(t, filepath.Base(res.FilePath), "lndconf-clipboard-")

	data, err := os.ReadFile(res.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "maxpeers=16", string(data))
	assert.Zero(t, term.Len())
}

func TestCopy_OversizedSkipsOSC52(t *testing.T) {
	t.Parallel()
	var term bytes.Buffer
	c := New(
		WithNative(nil),
		WithTerminal(&term, func() bool { return true }),
		WithGetenv(env(nil)),
		WithTempDir(t.TempDir()),
	)

	res, err := c.Copy(strings.Repeat("x", osc52LimitBytes+1))
	require.NoError(t, err)
	assert.Equal(t, MethodFile, res.Method)
	assert.Zero(t, term.Len())
}

func TestCopy_Empty(t *testing.T) {
	t.Parallel()
	_, err := New(WithNative(failNative)).Copy("")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCopy_AllFail(t *testing.T) {
	t.Parallel()
	c := New(
		WithNative(failNative),
		WithTerminal(nil, nil),
		WithTempDir(filepath.Join(t.TempDir(), "missing")),
	)

	_, err := c.Copy("alias=node")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copying")
}

func TestResult_String(t *testing.T) {
	t.Parallel()
	tests := []struct {
		res  Result
		want string
	}{
		{Result{Method: MethodNative}, "copied to clipboard"},
		{Result{Method: MethodOSC52}, "copied via terminal"},
		{Result{Method: MethodFile, FilePath: "/tmp/x.txt"}, "saved to /tmp/x.txt"},
		{Result{}, "not copied"},
	}
	for _, tt := range tests {
		if got := tt.res.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
