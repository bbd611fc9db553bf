package cache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache key prefixes for the retention aggregates
const (
	RetentionKeyPrefix = "retention:"
	AlertsKeyPrefix    = "alerts:"
)

var client *redis.Client

// Init initializes the Redis connection
func Init() error {
	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateDepositCaches clears every aggregate derived from the deposit ledger.
// Called on: CreateDeposit, UpdateDeposit, DeleteDeposit, RestoreDeposit
func InvalidateDepositCaches(ctx context.Context) {
	InvalidatePattern(ctx, RetentionKeyPrefix+"*")
	InvalidatePattern(ctx, AlertsKeyPrefix+"*")
	InvalidatePattern(ctx, "deposits:*")
}

// InvalidateDismissalCaches clears alert caches after a dismiss
// Called on: DismissAlert
func InvalidateDismissalCaches(ctx context.Context) {
	InvalidatePattern(ctx, AlertsKeyPrefix+"*")
}

// InvalidateDirectoryCaches clears name-join caches
// Called on: customer/product/user create, update, delete
func InvalidateDirectoryCaches(ctx context.Context) {
	InvalidatePattern(ctx, "customers:*")
	InvalidatePattern(ctx, "products:*")
	InvalidatePattern(ctx, RetentionKeyPrefix+"*")
	InvalidatePattern(ctx, AlertsKeyPrefix+"*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
