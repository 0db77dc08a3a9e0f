package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/duet/internal/pairing/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCodeStore indexes active pairing codes in Redis. The key's TTL is
// the code's expiry, so expired codes disappear without a sweeper.
// Keys are namespaced: pairing:code:{code}
type RedisCodeStore struct {
	client *redis.Client
}

// NewRedisCodeStore creates a Redis-backed code store.
func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func codeKey(code domain.Code) string {
	return fmt.Sprintf("pairing:code:%s", code.String())
}

// Put registers a code for its owner. SetNX keeps a freak collision from
// silently stealing another user's code.
func (s *RedisCodeStore) Put(ctx context.Context, code domain.Code, ownerID uuid.UUID, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, codeKey(code), ownerID.String(), ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store pairing code: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: code collision", domain.ErrCodeGeneration)
	}
	return nil
}

// Resolve returns the owner of a code. Redis drops keys at their TTL, so
// an expired code is indistinguishable from a missing one here; only the
// in-memory store can report ErrCodeExpired.
func (s *RedisCodeStore) Resolve(ctx context.Context, code domain.Code) (uuid.UUID, error) {
	value, err := s.client.Get(ctx, codeKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, domain.ErrCodeNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve pairing code: %w", err)
	}

	ownerID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt code entry: %w", err)
	}
	return ownerID, nil
}

// Invalidate removes a code after redemption.
func (s *RedisCodeStore) Invalidate(ctx context.Context, code domain.Code) error {
	if err := s.client.Del(ctx, codeKey(code)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate pairing code: %w", err)
	}
	return nil
}
