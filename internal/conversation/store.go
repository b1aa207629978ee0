package conversation

import (
	"context"
	"sync"
	"time"
)

// Store persists conversation sessions.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	// Append adds messages, creating the session when it does not exist yet.
	Append(ctx context.Context, sessionID string, msgs ...Message) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps sessions in process memory. Used by the CLI and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (m *MemoryStore) Append(ctx context.Context, sessionID string, msgs ...Message) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	s, ok := m.sessions[sessionID]
	if !ok {
		s = &Session{ID: sessionID, CreatedAt: now}
		m.sessions[sessionID] = s
	}
	appendBounded(s, msgs, now)

	return cloneSession(s), nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

func cloneSession(s *Session) *Session {
	c := *s
	c.Messages = append([]Message(nil), s.Messages...)
	return &c
}
