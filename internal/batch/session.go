package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const SessionKeyPrefix = "batch:"

func SessionKey(sessionID string) string {
	return SessionKeyPrefix + sessionID
}

// SessionStore keeps each operator session's batch in Redis. Every save
// extends the TTL; saving an empty batch removes the key.
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessionStore(redisClient *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: redisClient, ttl: ttl}
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (*Batch, error) {
	data, err := s.redis.Get(ctx, SessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load batch: %w", err)
	}

	b := New()
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	if b.Items == nil {
		b.Items = []Item{}
	}
	return b, nil
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, b *Batch) error {
	if b.IsEmpty() {
		return s.Delete(ctx, sessionID)
	}

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	if err := s.redis.Set(ctx, SessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save batch: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, SessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}
