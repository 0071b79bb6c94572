package session

import (
	"context"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
)

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, sess *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{session: *sess}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.sessions[sess.ID] = entry
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, models.ErrSessionExpired
	}
	sess := entry.session
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok, nil
}

// Len returns the number of stored sessions, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
