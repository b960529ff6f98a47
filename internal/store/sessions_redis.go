package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStoreRedis implements SessionStore against Redis, for deployments
// that share login state across processes. Each session is one key under the
// configured prefix holding the bound username, with no TTL.
type SessionStoreRedis struct {
	redis  redis.UniversalClient
	prefix string
}

func NewSessionStoreRedis(redisClient redis.UniversalClient, prefix string) *SessionStoreRedis {
	if prefix == "" {
		prefix = "session"
	}
	return &SessionStoreRedis{redis: redisClient, prefix: prefix}
}

func (s *SessionStoreRedis) key(token string) string {
	return s.prefix + ":" + token
}

// Start generates a token and binds it to username with a conditional SETNX,
// so a colliding token is never overwritten.
func (s *SessionStoreRedis) Start(ctx context.Context, username string) (string, error) {
	for i := 0; i < startAttempts; i++ {
		token := uuid.NewString()
		ok, err := s.redis.SetNX(ctx, s.key(token), username, 0).Result()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if ok {
			return token, nil
		}
	}
	return "", fmt.Errorf("%w: could not generate a unique session token", ErrStorage)
}

func (s *SessionStoreRedis) Lookup(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNotFound
	}
	username, err := s.redis.Get(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return username, nil
}

func (s *SessionStoreRedis) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.redis.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
