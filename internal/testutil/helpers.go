// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
)

// TempFile writes content to name in a fresh temporary directory and
// returns its path.
func TempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

// Schema parses a schema document or fails the test.
func Schema(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parsing schema: %v", err)
	}
	return s
}

// LNDSchema returns the embedded lnd schema or fails the test.
func LNDSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Default()
	if err != nil {
		t.Fatalf("loading embedded schema: %v", err)
	}
	return s
}

// Resolver returns a resolver over the embedded lnd schema.
func Resolver(t *testing.T, opts ...field.ResolverOption) *field.Resolver {
	t.Helper()
	return field.NewResolver(LNDSchema(t), opts...)
}
