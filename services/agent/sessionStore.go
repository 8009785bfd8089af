// File: services/agent/sessionStore.go
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bookline/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "agent:sess:"

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = fmt.Errorf("session not found")

// SessionStore persists conversation sessions between turns.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.ConversationSession, error)
	Put(ctx context.Context, session *models.ConversationSession) error
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions in Redis with a sliding TTL; every Put
// refreshes the expiry so active conversations stay alive.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.ConversationSession, error) {
	data, err := s.client.Get(ctx, sessionPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session models.ConversationSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, session *models.ConversationSession) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+session.ID, b, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionPrefix+id).Err()
}

// MemorySessionStore is an in-process store used in tests and when Redis is
// not configured.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.ConversationSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*models.ConversationSession)}
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*models.ConversationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	copied.Turns = append([]models.Turn(nil), session.Turns...)
	return &copied, nil
}

func (s *MemorySessionStore) Put(ctx context.Context, session *models.ConversationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	copied.Turns = append([]models.Turn(nil), session.Turns...)
	s.sessions[session.ID] = &copied
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
