// Package sse streams form events to web clients as Server-Sent Events.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/events"
)

// TypeConnected is the first frame of every stream.
const TypeConnected = "connected"

// Defaults for NewHandler.
const (
	DefaultHeartbeat = 30 * time.Second
	DefaultRetry     = 3 * time.Second
)

// Handler streams events from an EventBus to connected clients. Every frame
// carries an id that increases across all streams of the handler.
type Handler struct {
	bus       *events.EventBus
	heartbeat time.Duration
	retry     time.Duration
	logger    *slog.Logger
	seq       atomic.Uint64

	mu      sync.Mutex
	streams map[string]*stream
}

// Option configures a Handler.
type Option func(*Handler)

// WithHeartbeat sets the interval between keep-alive comments.
func WithHeartbeat(d time.Duration) Option {
	return func(h *Handler) { h.heartbeat = d }
}

// WithRetry sets the reconnect delay advertised to clients.
func WithRetry(d time.Duration) Option {
	return func(h *Handler) { h.retry = d }
}

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler creates a handler reading from bus.
func NewHandler(bus *events.EventBus, opts ...Option) *Handler {
	h := &Handler{
		bus:       bus,
		heartbeat: DefaultHeartbeat,
		retry:     DefaultRetry,
		logger:    slog.Default(),
		streams:   make(map[string]*stream),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// stream is one connected client.
type stream struct {
	id      string
	session string
	types   []string
	stop    chan struct{}
	once    sync.Once
}

func (s *stream) close() {
	s.once.Do(func() { close(s.stop) })
}

// ServeHTTP implements http.Handler. The "session" query parameter limits
// the stream to one session and "types" to a comma separated list of event
// types.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Stream(w, r, r.URL.Query().Get("session"))
}

// Stream serves the events of session, or of every session when it is empty,
// until the client goes away or the handler shuts down.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request, session string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	// Streams outlive the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	s := &stream{
		id:      uuid.NewString(),
		session: session,
		types:   parseTypes(r.URL.Query().Get("types")),
		stop:    make(chan struct{}),
	}
	ch := h.bus.SubscribeForSession(session, s.types...)
	defer h.bus.Unsubscribe(ch)

	h.add(s)
	defer h.remove(s)

	logger := h.logger.With(slog.String("stream", s.id), slog.String("session_id", session))
	logger.Debug("event stream opened", slog.Any("types", s.types))
	defer logger.Debug("event stream closed")

	fw := frameWriter{w: w, flusher: flusher}
	if err := fw.retry(h.retry); err != nil {
		return
	}
	hello := map[string]any{"stream_id": s.id, "session_id": session, "types": s.types}
	if err := fw.event(h.seq.Add(1), TypeConnected, hello); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-r.Context().Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			err = fw.comment("heartbeat")
		case e, ok := <-ch:
			if !ok {
				return
			}
			err = fw.event(h.seq.Add(1), e.EventType(), e)
		}
		if err != nil {
			logger.Debug("event stream write failed", slog.String("error", err.Error()))
			return
		}
	}
}

func parseTypes(q string) []string {
	var out []string
	for _, t := range strings.Split(q, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (h *Handler) add(s *stream) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.streams[s.id] = s
}

func (h *Handler) remove(s *stream) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.streams, s.id)
	s.close()
}

// ClientCount returns the number of open streams.
func (h *Handler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.streams)
}

// Shutdown ends every open stream.
func (h *Handler) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, s := range h.streams {
		s.close()
		delete(h.streams, id)
	}
	return nil
}

// frameWriter writes Server-Sent Events frames and flushes each one.
type frameWriter struct {
	w       io.Writer
	flusher http.Flusher
}

func (fw frameWriter) event(id uint64, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", name, err)
	}
	if _, err := fmt.Fprintf(fw.w, "id: %d\nevent: %s\ndata: %s\n\n", id, name, payload); err != nil {
		return err
	}
	fw.flusher.Flush()
	return nil
}

func (fw frameWriter) retry(d time.Duration) error {
	if _, err := io.WriteString(fw.w, "retry: "+strconv.FormatInt(d.Milliseconds(), 10)+"\n\n"); err != nil {
		return err
	}
	fw.flusher.Flush()
	return nil
}

func (fw frameWriter) comment(text string) error {
	if _, err := fmt.Fprintf(fw.w, ": %s\n\n", text); err != nil {
		return err
	}
	fw.flusher.Flush()
	return nil
}
