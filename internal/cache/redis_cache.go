package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/osjaeyoung/bbanggri-server/internal/config"
	"github.com/osjaeyoung/bbanggri-server/internal/domain"
)

type RedisProfileCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisProfileCache(cfg config.RedisConfig) (*RedisProfileCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisProfileCache{
		client: client,
		prefix: cfg.CachePrefix,
		ttl:    cfg.CacheTTL,
	}, nil
}

func (c *RedisProfileCache) tokenKey(uuid string) string {
	return fmt.Sprintf("%s:token:%s", c.prefix, uuid)
}

func (c *RedisProfileCache) profileKey(uuid string) string {
	return fmt.Sprintf("%s:profile:%s", c.prefix, uuid)
}

func (c *RedisProfileCache) GetToken(ctx context.Context, uuid string) (string, error) {
	token, err := c.client.Get(ctx, c.tokenKey(uuid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get token from redis: %w", err)
	}
	return token, nil
}

func (c *RedisProfileCache) SetToken(ctx context.Context, uuid, token string) error {
	if err := c.client.Set(ctx, c.tokenKey(uuid), token, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set token in redis: %w", err)
	}
	return nil
}

func (c *RedisProfileCache) GetProfile(ctx context.Context, uuid string) (*domain.Profile, error) {
	data, err := c.client.Get(ctx, c.profileKey(uuid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get profile from redis: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}
	return &profile, nil
}

func (c *RedisProfileCache) SetProfile(ctx context.Context, uuid string, profile *domain.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := c.client.Set(ctx, c.profileKey(uuid), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set profile in redis: %w", err)
	}
	return nil
}

func (c *RedisProfileCache) Close() error {
	return c.client.Close()
}
