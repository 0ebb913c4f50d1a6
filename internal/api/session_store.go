package api

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/api/middleware"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/events"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/form"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

// DefaultMaxSessions bounds the live sessions of a store.
const DefaultMaxSessions = 64

// Session is one editing session served over HTTP.
type Session struct {
	ID        string
	Form      *form.Form
	CreatedAt time.Time

	mu       sync.Mutex
	lastUsed time.Time
}

// SessionID implements middleware.Session.
func (s *Session) SessionID() string {
	return s.ID
}

// Touch implements middleware.Session.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
}

// LastUsed returns when the session was last accessed.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// SessionStore holds the live sessions. When full, creating a session evicts
// the least recently used one.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int

	resolver *field.Resolver
	presets  *preset.Table
	bus      *events.EventBus
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions share resolver and presets.
// bus may be nil.
func NewSessionStore(resolver *field.Resolver, presets *preset.Table, bus *events.EventBus, maxSessions int, logger *slog.Logger) *SessionStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		max:      maxSessions,
		resolver: resolver,
		presets:  presets,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
	}
}

// SetPresets replaces the preset table used by sessions created from now on.
func (st *SessionStore) SetPresets(t *preset.Table) {
	st.mu.Lock()
	st.presets = t
	st.mu.Unlock()
}

// Create starts a session from the schema defaults for platform, or from
// start when it is non-nil. Properties absent from start show their
// defaults.
func (st *SessionStore) Create(platform string, start settings.Tree) *Session {
	if start != nil && platform != "" {
		start = settings.Set(start, schema.InternalSection, schema.PlatformProperty, platform)
	}
	id := uuid.NewString()
	now := st.now()
	logger := st.logger.With("session_id", id)

	opts := []form.Option{form.WithLogger(logger), form.WithTree(start)}
	if st.bus != nil {
		opts = append(opts,
			form.WithOnChange(func(tree settings.Tree) {
				st.bus.Publish(events.NewSettingsChangedEvent(id, tree))
			}),
			form.WithOnPreset(func(name string, tree settings.Tree) {
				st.bus.Publish(events.NewPresetAppliedEvent(id, name, tree))
			}),
		)
	}

	st.mu.RLock()
	presets := st.presets
	st.mu.RUnlock()

	s := &Session{
		ID:        id,
		Form:      form.New(st.resolver, presets, platform, opts...),
		CreatedAt: now,
		lastUsed:  now,
	}

	st.mu.Lock()
	var evicted string
	if len(st.sessions) >= st.max {
		evicted = st.oldestLocked()
		delete(st.sessions, evicted)
	}
	st.sessions[id] = s
	st.mu.Unlock()

	if evicted != "" {
		st.logger.Info("session evicted", "session_id", evicted)
		st.publish(events.NewSessionClosedEvent(evicted, "evicted"))
	}
	logger.Info("session created", "platform", s.Form.Platform())
	st.publish(events.NewSessionCreatedEvent(id, s.Form.Platform()))
	return s
}

// Get returns the session with the given ID.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Lookup implements middleware.SessionLookup.
func (st *SessionStore) Lookup(id string) (middleware.Session, bool) {
	s, ok := st.Get(id)
	if !ok {
		return nil, false
	}
	return s, true
}

// Delete closes a session. It reports whether the session existed.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		st.logger.Info("session closed", "session_id", id)
		st.publish(events.NewSessionClosedEvent(id, "deleted"))
	}
	return ok
}

// List returns the live sessions, most recently used first.
func (st *SessionStore) List() []*Session {
	st.mu.RLock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	st.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastUsed().After(out[j].LastUsed())
	})
	return out
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *SessionStore) oldestLocked() string {
	var (
		oldest string
		at     time.Time
	)
	for id, s := range st.sessions {
		used := s.LastUsed()
		if oldest == "" || used.Before(at) {
			oldest, at = id, used
		}
	}
	return oldest
}

func (st *SessionStore) publish(e events.Event) {
	if st.bus != nil {
		st.bus.Publish(e)
	}
}
