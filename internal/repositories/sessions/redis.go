package sessions

import (
	"context"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/common"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// sessionKeyPrefix maps token → user id.
	sessionKeyPrefix = "session:"
	// userSessionKeyPrefix maps user id → current token.
	userSessionKeyPrefix = "user_session:"
)

// RedisStore keeps session tokens in Redis. Key TTLs double as the expired
// token purge: Redis drops the key, so an expired token can never validate.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, userID.String(), ttl).Err(); err != nil {
		return err
	}
	return s.rdb.Set(ctx, userSessionKeyPrefix+userID.String(), token, ttl).Err()
}

func (s *RedisStore) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	userIDStr, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return uuid.Nil, common.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, common.ErrNotFound
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	// Drop the reverse mapping first so a half-deleted session can't be
	// resurrected by a concurrent Save.
	userIDStr, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if err == nil && userIDStr != "" {
		s.rdb.Del(ctx, userSessionKeyPrefix+userIDStr)
	}
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}

func (s *RedisStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	userKey := userSessionKeyPrefix + userID.String()

	token, err := s.rdb.Get(ctx, userKey).Result()
	if err == nil && token != "" {
		s.rdb.Del(ctx, sessionKeyPrefix+token)
	}
	return s.rdb.Del(ctx, userKey).Err()
}
