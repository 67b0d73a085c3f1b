package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

// Store persists session users by id. Load returns SESSION_MISSING for unknown or expired ids.
type Store interface {
	Save(ctx context.Context, u *User, ttl time.Duration) error
	Load(ctx context.Context, id string) (*User, error)
	Delete(ctx context.Context, id string) error
}

const keyPrefix = "session:"

// RedisStore keeps sessions as JSON values with a TTL.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore constructs a Redis backed store.
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, logger: logger}
}

// Save stores u under its id.
func (s *RedisStore) Save(ctx context.Context, u *User, ttl time.Duration) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", u.ID, err)
	}
	if err := s.client.Set(ctx, keyPrefix+u.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", u.ID, err)
	}
	return nil
}

// Load fetches a session.
func (s *RedisStore) Load(ctx context.Context, id string) (*User, error) {
	raw, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrSessionMissing
		}
		return nil, fmt.Errorf("redis get session %s: %w", id, err)
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.logger.Warn("discarding unreadable session", zap.String("session_id", id), zap.Error(err))
		return nil, appErrors.ErrSessionMissing
	}
	return &u, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", id, err)
	}
	return nil
}

type memoryEntry struct {
	user      User
	expiresAt time.Time
}

// MemoryStore is a process local store used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, u *User, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{user: *u}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[u.ID] = entry
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, appErrors.ErrSessionMissing
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		return nil, appErrors.ErrSessionMissing
	}
	u := entry.user
	return &u, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
