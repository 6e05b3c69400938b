package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory. Expired entries are dropped
// lazily on access and on Count.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	timeout  time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a store with the given sliding timeout.
func NewMemoryStore(timeout time.Duration) *MemoryStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MemoryStore{sessions: map[string]Session{}, timeout: timeout, now: time.Now}
}

func (m *MemoryStore) Create(_ context.Context, username string) (Session, error) {
	now := m.now()
	s := Session{ID: uuid.NewString(), Username: username, CreatedAt: now, ExpiresAt: now.Add(m.timeout)}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *MemoryStore) Validate(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	now := m.now()
	if !now.Before(s.ExpiresAt) {
		delete(m.sessions, id)
		return Session{}, ErrNotFound
	}
	s.ExpiresAt = now.Add(m.timeout)
	m.sessions[id] = s
	return s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.sessions)
	m.sessions = map[string]Session{}
	return n, nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, id)
		}
	}
	return len(m.sessions), nil
}
