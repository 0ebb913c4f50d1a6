package events

import (
	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
)

// Event type constants for editing sessions.
const (
	TypeSessionCreated  = "session_created"
	TypeSessionClosed   = "session_closed"
	TypeSettingsChanged = "settings_changed"
	TypePresetApplied   = "preset_applied"
)

// SessionCreatedEvent is emitted when an editing session starts.
type SessionCreatedEvent struct {
	BaseEvent
	Platform string `json:"platform"`
}

// NewSessionCreatedEvent creates a new session created event.
func NewSessionCreatedEvent(sessionID, platform string) SessionCreatedEvent {
	return SessionCreatedEvent{
		BaseEvent: NewBaseEvent(TypeSessionCreated, sessionID),
		Platform:  platform,
	}
}

// SessionClosedEvent is emitted when a session is deleted or evicted.
type SessionClosedEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}

// NewSessionClosedEvent creates a new session closed event.
func NewSessionClosedEvent(sessionID, reason string) SessionClosedEvent {
	return SessionClosedEvent{
		BaseEvent: NewBaseEvent(TypeSessionClosed, sessionID),
		Reason:    reason,
	}
}

// SettingsChangedEvent carries the complete tree after a field edit.
type SettingsChangedEvent struct {
	BaseEvent
	Settings settings.Tree `json:"settings"`
}

// NewSettingsChangedEvent creates a new settings changed event.
func NewSettingsChangedEvent(sessionID string, tree settings.Tree) SettingsChangedEvent {
	return SettingsChangedEvent{
		BaseEvent: NewBaseEvent(TypeSettingsChanged, sessionID),
		Settings:  tree,
	}
}

// PresetAppliedEvent carries the tree that replaced the session's settings.
type PresetAppliedEvent struct {
	BaseEvent
	Preset   string        `json:"preset"`
	Settings settings.Tree `json:"settings"`
}

// NewPresetAppliedEvent creates a new preset applied event.
func NewPresetAppliedEvent(sessionID, preset string, tree settings.Tree) PresetAppliedEvent {
	return PresetAppliedEvent{
		BaseEvent: NewBaseEvent(TypePresetApplied, sessionID),
		Preset:    preset,
		Settings:  tree,
	}
}
