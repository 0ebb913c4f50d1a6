package web

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/api"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/config"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/events"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/platform"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAPI(t *testing.T, bus *events.EventBus) *api.Server {
	t.Helper()
	s, err := schema.Default()
	require.NoError(t, err)
	opts := []api.ServerOption{api.WithLogger(testLogger()), api.WithPlatform(platform.Linux)}
	if bus != nil {
		opts = append(opts, api.WithEventBus(bus))
	}
	return api.NewServer(field.NewResolver(s), nil, opts...)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8735, cfg.Port)
	assert.True(t, cfg.EnableCORS)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
}

func TestConfigFrom(t *testing.T) {
	t.Parallel()
	cfg := ConfigFrom(config.ServerConfig{
		Host:            "0.0.0.0",
		Port:            9000,
		CORSOrigins:     []string{"http://example.com"},
		EnableCORS:      false,
		ReadTimeout:     time.Second,
		WriteTimeout:    2 * time.Second,
		IdleTimeout:     3 * time.Second,
		ShutdownTimeout: 4 * time.Second,
	})
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"http://example.com"}, cfg.CORSOrigins)
	assert.False(t, cfg.EnableCORS)
	assert.Equal(t, 4*time.Second, cfg.ShutdownTimeout)
}

func TestServer_Addr(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 9999
	s := New(cfg, testAPI(t, nil), testLogger())
	assert.Equal(t, "127.0.0.1:9999", s.Addr())
}

func TestServer_HealthThroughMount(t *testing.T) {
	t.Parallel()
	s := New(DefaultConfig(), testAPI(t, nil), testLogger())

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		enable  bool
		origin  string
		allowed string
	}{
		{"allowed origin", true, "http://localhost:5173", "http://localhost:5173"},
		{"foreign origin", true, "http://evil.example", ""},
		{"disabled", false, "http://localhost:5173", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			cfg.EnableCORS = tt.enable
			s := New(cfg, testAPI(t, nil), testLogger())

			req := httptest.NewRequest(http.MethodOptions, "/api/v1/presets", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.allowed {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.allowed)
			}
		})
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestServer_StartShutdown(t *testing.T) {
	bus := events.New(16)
	defer bus.Close()

	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = freePort(t)
	s := New(cfg, testAPI(t, bus), testLogger())
	require.NoError(t, s.Start())

	url := "http://127.0.0.1:" + strconv.Itoa(cfg.Port) + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	_, err := http.Get(url)
	assert.Error(t, err)
}

func TestServer_ListenAndServeReturnsNilAfterShutdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = freePort(t)
	s := New(cfg, testAPI(t, nil), testLogger())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe() }()

	addr := s.Addr()
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, s.Shutdown(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return")
	}
}
