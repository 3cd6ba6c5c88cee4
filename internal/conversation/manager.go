package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BTreeMap/MoodPipe/internal/models"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// History supplies persisted emotion-log entries for sessions this process has not seen.
type History interface {
	ListEmotions(ctx context.Context, sessionID string) ([]models.EmotionLogEntry, error)
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.RWMutex
	engine   *Engine
	history  History
	sessions map[string]*Session
}

// NewManager creates a Manager. history may be nil; when set, a session id unknown to this
// process but present in history is resumed with its persisted emotion log.
func NewManager(engine *Engine, history History) *Manager {
	return &Manager{engine: engine, history: history, sessions: make(map[string]*Session)}
}

// Create starts a new session.
func (m *Manager) Create(p models.Personality, l models.Language) *Session {
	s := newSession(uuid.NewString(), m.engine, p, l, nil)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	slog.Debug("Manager.Create: session created", "sessionID", s.ID, "personality", s.personality, "language", s.language)
	return s
}

// Get returns the session with id.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.touch()
		return s, nil
	}
	if _, err := uuid.Parse(id); err != nil || m.history == nil {
		return nil, ErrSessionNotFound
	}

	entries, err := m.history.ListEmotions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load emotion history for session %s: %w", id, err)
	}
	if len(entries) == 0 {
		return nil, ErrSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s = newSession(id, m.engine, "", "", entries)
	m.sessions[id] = s
	slog.Info("Manager.Get: resumed session from persisted emotion log", "sessionID", id, "entries", len(entries))
	return s, nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// EvictIdle drops sessions unused for longer than maxIdle and returns how many were dropped.
// An evicted session whose emotion log was persisted can still be resumed by Get.
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	cutoff := m.engine.now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		slog.Info("Manager.EvictIdle: evicted idle sessions", "evicted", evicted, "remaining", len(m.sessions), "max_idle", maxIdle)
	}
	return evicted
}
