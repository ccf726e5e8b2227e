package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finchley/tally/internal/apperror"
)

// sessionKeyPrefix is the Redis key prefix for session data.
const sessionKeyPrefix = "session:"

// redisSessionStore implements SessionStore over Redis. The session ID is
// the key and the Session struct is the value (JSON-encoded); expiry is
// delegated to the Redis TTL derived from the session's ExpiresAt.
type redisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a session store backed by the given Redis client.
func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) Put(ctx context.Context, token string, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return apperror.NewUnauthorized("session expired or invalid")
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+token, data, ttl).Err(); err != nil {
		return fmt.Errorf("storing session in redis: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}
	if err != nil {
		return nil, fmt.Errorf("reading session from redis: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}

	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("deleting session from redis: %w", err)
	}
	return nil
}
