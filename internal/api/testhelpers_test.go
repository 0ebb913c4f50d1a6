package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/platform"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

func testResolver(t *testing.T) *field.Resolver {
	t.Helper()

	s, err := schema.Default()
	require.NoError(t, err)
	require.NoError(t, s.SpecializeAll(map[string]schema.FieldKind{
		"app.lnddir":          schema.KindPath,
		"app.listen":          schema.KindList,
		"neutrino.addpeer":    schema.KindList,
		"autopilot.heuristic": schema.KindMultiSelect,
	}))
	return field.NewResolver(s)
}

func testPresets(t *testing.T) *preset.Table {
	t.Helper()

	table, err := preset.NewTable(preset.Preset{
		Name:   "Mainnet",
		Source: "mainnet.yaml",
		Settings: settings.Tree{
			"bitcoin": map[string]any{"network": "mainnet"},
		},
	})
	require.NoError(t, err)
	return table
}

func newTestServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	opts = append([]ServerOption{WithPlatform(platform.Linux)}, opts...)
	return NewServer(testResolver(t), testPresets(t), opts...)
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createSession(t *testing.T, h http.Handler) SessionResponse {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[SessionResponse](t, rec)
}
