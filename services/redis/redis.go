package redis

import (
	redis_models "Gamestore/models/redis"
	redis_utils "Gamestore/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// PendingCheckoutTTL bounds how long a redirect-flow checkout can sit
// between create and verify before the token goes stale.
const PendingCheckoutTTL = 30 * time.Minute

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// SavePendingCheckout stores a redirect-flow checkout stash in Redis.
// Key format: "checkout:pending:{token}"
// TTL: PendingCheckoutTTL
func (rc *RedisClient) SavePendingCheckout(token string, pending *redis_models.PendingCheckout) error {
	key := redis_utils.FormatPendingCheckoutKey(token)
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("error marshaling pending checkout: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, PendingCheckoutTTL).Err()
}

// GetPendingCheckout retrieves a stashed checkout by token.
// Returns (nil, nil) when the token is unknown or already expired.
func (rc *RedisClient) GetPendingCheckout(token string) (*redis_models.PendingCheckout, error) {
	key := redis_utils.FormatPendingCheckoutKey(token)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting pending checkout: %v", err)
	}

	var pending redis_models.PendingCheckout
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("error unmarshaling pending checkout: %v", err)
	}
	return &pending, nil
}

// DeletePendingCheckout removes a stashed checkout once verification
// reaches a terminal outcome, so a stale reference cannot be replayed.
func (rc *RedisClient) DeletePendingCheckout(token string) error {
	key := redis_utils.FormatPendingCheckoutKey(token)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting pending checkout: %v", err)
	}
	return nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
