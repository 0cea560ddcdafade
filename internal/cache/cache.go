package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"paperapi/internal/model"
)

// ErrCacheMiss is returned by Get when the paper is not cached.
var ErrCacheMiss = errors.New("cache miss")

// PaperCache holds resolved papers keyed by id.
type PaperCache interface {
	Get(ctx context.Context, id string) (*model.Paper, error)
	Set(ctx context.Context, p *model.Paper) error
	Delete(ctx context.Context, id string) error
}

// RedisCache implements PaperCache with JSON values in Redis.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCache wraps an existing client. A non-positive ttl keeps entries until evicted.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
		ReadTimeout: 2 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func key(id string) string {
	return "paper:" + id
}

func (c *RedisCache) Get(ctx context.Context, id string) (*model.Paper, error) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var p model.Paper
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode cached paper %s: %w", id, err)
	}
	return &p, nil
}

func (c *RedisCache) Set(ctx context.Context, p *model.Paper) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(p.ID), data, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, key(id)).Err()
}

// Noop never stores anything; every Get is a miss.
type Noop struct{}

func (Noop) Get(context.Context, string) (*model.Paper, error) { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, *model.Paper) error          { return nil }
func (Noop) Delete(context.Context, string) error             { return nil }
