package session

import (
	"sync"

	"mindmap-backend/pkg/errors"
)

// Factory builds a fresh session for one map. Injected so the HTTP layer
// never knows how stores, layouts and providers are wired together.
type Factory func(cfg Config) *Session

// Manager holds the currently active session. Opening a new map discards
// the previous one, matching the single-map interaction model.
type Manager struct {
	mu      sync.RWMutex
	factory Factory
	current *Session
}

// NewManager creates a manager with no active session.
func NewManager(factory Factory) *Manager {
	return &Manager{factory: factory}
}

// Open replaces the active session with a fresh one configured for the new
// map.
func (m *Manager) Open(cfg Config) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.factory(cfg)
	return m.current
}

// Current returns the active session, or a validation error when no map has
// been opened yet.
func (m *Manager) Current() (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, errors.NewValidation("no mind map is loaded yet")
	}
	return m.current, nil
}
