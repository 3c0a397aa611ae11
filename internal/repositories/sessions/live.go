package sessions

import (
	"context"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/common"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const liveKeyPrefix = "analysis_live:"

// LiveStore tracks in-flight analysis sessions so that completion and the
// realtime feed can check ownership. TTL-bounded: an abandoned session
// disappears on its own.
type LiveStore interface {
	Register(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error
	Owner(ctx context.Context, sessionID string) (uuid.UUID, error)
	Remove(ctx context.Context, sessionID string) error
}

type RedisLiveStore struct {
	rdb *redis.Client
}

func NewRedisLiveStore(rdb *redis.Client) *RedisLiveStore {
	return &RedisLiveStore{rdb: rdb}
}

func (s *RedisLiveStore) Register(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	return s.rdb.Set(ctx, liveKeyPrefix+sessionID, userID.String(), ttl).Err()
}

func (s *RedisLiveStore) Owner(ctx context.Context, sessionID string) (uuid.UUID, error) {
	userIDStr, err := s.rdb.Get(ctx, liveKeyPrefix+sessionID).Result()
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

func (s *RedisLiveStore) Remove(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, liveKeyPrefix+sessionID).Err()
}
