package auth

import (
	"context"
	"sync"
	"time"

	"github.com/finchley/tally/internal/apperror"
)

// SessionStore is the persistence contract for session records. Get on a
// missing or expired token returns apperror.Unauthorized. Put overwrites
// atomically: concurrent auth operations on one token resolve to whichever
// wrote last, never to a merged half-state.
type SessionStore interface {
	Put(ctx context.Context, token string, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// memorySessionStore keeps sessions in process memory. Used in demo mode
// and in tests. Sessions do not survive a restart, which is acceptable:
// demo mode exists for local evaluation only.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]Session)}
}

func (s *memorySessionStore) Put(_ context.Context, token string, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = *session
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}

	// Expired entries are dropped lazily on read; there is no janitor.
	if time.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}

	return &session, nil
}

func (s *memorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
