package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "litdrill:session:"

// RedisStore keeps contexts in redis so a conversation survives restarts
// until the TTL elapses.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func key(chatID int64) string {
	return keyPrefix + strconv.FormatInt(chatID, 10)
}

func (s *RedisStore) Load(ctx context.Context, chatID int64) (*Context, error) {
	raw, err := s.client.Get(ctx, key(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewContext(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %d: %w", chatID, err)
	}
	var c Context
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode session %d: %w", chatID, err)
	}
	if c.State == "" {
		c.State = Idle
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, chatID int64, c *Context) error {
	if c.State == Idle {
		return s.Delete(ctx, chatID)
	}
	stored := c.clone()
	stored.UpdatedAt = time.Now()
	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode session %d: %w", chatID, err)
	}
	if err := s.client.Set(ctx, key(chatID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %d: %w", chatID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, key(chatID)).Err(); err != nil {
		return fmt.Errorf("delete session %d: %w", chatID, err)
	}
	return nil
}
