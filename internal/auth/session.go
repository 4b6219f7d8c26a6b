package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists bearer sessions keyed by token id. A token is
// only valid while its session exists, so deleting the session revokes
// the token regardless of its expiry.
type SessionStore interface {
	Create(ctx context.Context, sid, userID string, ttl time.Duration) error
	// Get returns the userID for a session, or "" if not found / expired.
	Get(ctx context.Context, sid string) (string, error)
	Delete(ctx context.Context, sid string) error
}

// RedisSessions backs SessionStore with Redis.
type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func (s *RedisSessions) Create(ctx context.Context, sid, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, "session:"+sid, userID, ttl).Err()
}

func (s *RedisSessions) Get(ctx context.Context, sid string) (string, error) {
	val, err := s.rdb.Get(ctx, "session:"+sid).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *RedisSessions) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, "session:"+sid).Err()
}
