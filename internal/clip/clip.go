// Package clip copies resolved values out of the editor. It prefers the
// native clipboard, falls back to the terminal's OSC52 clipboard and, when
// neither is reachable, leaves the text in a temp file.
package clip

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// Method is the mechanism a copy went through.
type Method string

const (
	MethodNative Method = "native"
	MethodOSC52  Method = "osc52"
	MethodFile   Method = "file"
)

// Result reports how text was made available. FilePath is set only for
// MethodFile.
type Result struct {
	Method   Method
	FilePath string
}

// String describes the result for a status line.
func (r Result) String() string {
	switch r.Method {
	case MethodNative:
		return "copied to clipboard"
	case MethodOSC52:
		return "copied via terminal"
	case MethodFile:
		return "saved to " + r.FilePath
	default:
		return "not copied"
	}
}

// osc52LimitBytes caps the payload; terminals drop larger sequences.
const osc52LimitBytes = 100_000

// ErrEmpty is returned when there is nothing to copy.
var ErrEmpty = errors.New("nothing to copy")

// Copier copies text through the first mechanism that works.
type Copier struct {
	native   func(string) error
	terminal io.Writer
	isTTY    func() bool
	getenv   func(string) string
	tempDir  string
}

// Option configures a Copier.
type Option func(*Copier)

// WithNative replaces the native clipboard writer. nil disables it.
func WithNative(fn func(string) error) Option {
	return func(c *Copier) { c.native = fn }
}

// WithTerminal sends OSC52 sequences to w. isTTY reports whether w is an
// interactive terminal.
func WithTerminal(w io.Writer, isTTY func() bool) Option {
	return func(c *Copier) {
		c.terminal = w
		c.isTTY = isTTY
	}
}

// WithTempDir sets where the file fallback writes.
func WithTempDir(dir string) Option {
	return func(c *Copier) { c.tempDir = dir }
}

// WithGetenv replaces the environment lookup used to detect multiplexers.
func WithGetenv(fn func(string) string) Option {
	return func(c *Copier) { c.getenv = fn }
}

// New returns a Copier using the system clipboard and stderr. stderr keeps
// the sequences away from the stdout renderer.
func New(opts ...Option) *Copier {
	c := &Copier{
		native:   atotto.WriteAll,
		terminal: os.Stderr,
		isTTY:    func() bool { return term.IsTerminal(int(os.Stderr.Fd())) },
		getenv:   os.Getenv,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy makes text available, trying native, OSC52 and then a temp file.
func (c *Copier) Copy(text string) (Result, error) {
	if text == "" {
		return Result{}, ErrEmpty
	}
	if c.native != nil {
		if err := c.native(text); err == nil {
			return Result{Method: MethodNative}, nil
		}
	}
	if err := c.osc52(text); err == nil {
		return Result{Method: MethodOSC52}, nil
	}

	path, err := c.writeTempFile(text)
	if err != nil {
		return Result{}, fmt.Errorf("copying: %w", err)
	}
	return Result{Method: MethodFile, FilePath: path}, nil
}

func (c *Copier) osc52(text string) error {
	if c.terminal == nil || c.isTTY == nil || !c.isTTY() {
		return errors.New("no terminal")
	}
	if len(text) > osc52LimitBytes {
		return fmt.Errorf("text too large for OSC52 (%d bytes > %d)", len(text), osc52LimitBytes)
	}

	seq := osc52.New(text).Limit(osc52LimitBytes)
	if c.getenv("TMUX") != "" {
		seq = seq.Tmux()
	} else if c.getenv("STY") != "" {
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(c.terminal)
	return err
}

func (c *Copier) writeTempFile(text string) (path string, err error) {
	f, err := os.CreateTemp(c.tempDir, "lndconf-clipboard-*.txt")
	if err != nil {
		return "", err
	}
	path = f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if _, err = f.WriteString(text); err != nil {
		_ = f.Close()
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}

// WriteAll copies text with a default Copier.
func WriteAll(text string) (Result, error) {
	return New().Copy(text)
}
