package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasktrail/tasktrail-backend/internal/auth/domain"
)

const currentUserKey = "tasktrail:session:current_user"

// RedisSlot keeps the current identity under a single key with an
// optional TTL. A TTL of zero means the slot never expires.
type RedisSlot struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlot(client *redis.Client, ttl time.Duration) *RedisSlot {
	return &RedisSlot{client: client, ttl: ttl}
}

func (s *RedisSlot) Load(ctx context.Context) (*domain.Identity, error) {
	data, err := s.client.Get(ctx, currentUserKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session slot: %w", err)
	}

	var id domain.Identity
	if err := json.Unmarshal([]byte(data), &id); err != nil {
		return nil, fmt.Errorf("parse session slot: %w", err)
	}
	if id.ID == "" || id.Email == "" {
		return nil, fmt.Errorf("session slot missing identity fields")
	}
	return &id, nil
}

func (s *RedisSlot) Save(ctx context.Context, id *domain.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal session slot: %w", err)
	}
	if err := s.client.Set(ctx, currentUserKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session slot: %w", err)
	}
	return nil
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, currentUserKey).Err(); err != nil {
		return fmt.Errorf("clear session slot: %w", err)
	}
	return nil
}
