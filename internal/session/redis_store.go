package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/redisclient"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pessoas:session:"

// redisExpiryGrace keeps a key readable past the session expiry so the
// Manager still sees ExpiresAt and can dispose of per-session state
const redisExpiryGrace = 10 * time.Minute

// RedisStore keeps sessions in Redis. Keys expire redisExpiryGrace after
// the session does.
type RedisStore struct {
	client *redisclient.Client
}

// NewRedisStore creates a store on top of a traced Redis client
func NewRedisStore(client *redisclient.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if ttl > 0 {
		ttl += redisExpiryGrace
	} else {
		ttl = 0
	}
	return s.client.Set(ctx, redisKeyPrefix+sess.ID, data, ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Del(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
