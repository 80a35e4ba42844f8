package redis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"pdf-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions stay in a local map so subscriptions keep working in-process;
// Redis carries a liveness marker per session that expires when a session goes idle.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Create(playerID, bankID string) *app.Session {
	session := app.NewSession(uuid.NewString(), playerID, bankID)
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), session.PlayerID(), s.ttl).Err()
	return session
}

// Get returns a live session and extends its marker. A session whose marker
// expired is dropped from the local map and its subscribers are released.
func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl <= 0 {
		return session, true
	}

	alive, err := s.client.Expire(context.Background(), s.key(sessionID), s.ttl).Result()
	if err == nil && !alive {
		s.Delete(sessionID)
		session.Close()
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
