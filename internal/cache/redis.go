package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blogworks/postapi/internal/config"
	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/metrics"
	"github.com/blogworks/postapi/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by Get when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// RedisClient wraps the redis.Client with pooling, metrics and tracing
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to the configured Redis instance and pings it
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == "" {
		port = "6379"
	}
	addr := fmt.Sprintf("%s:%s", host, port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 2,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		logger.ErrorWithFields("Failed to connect to Redis", err)
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Log.Info("Redis client connected", zap.String("address", addr))
	return &RedisClient{client: client}, nil
}

// Wrap adapts an existing go-redis client
func Wrap(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// Close closes the Redis connection gracefully
func (rc *RedisClient) Close() error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Close()
}

// Ping tests the Redis connection
func (rc *RedisClient) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Get retrieves a value, returning ErrCacheMiss when the key is absent
func (rc *RedisClient) Get(ctx context.Context, key string) (string, error) {
	ctx, span := telemetry.TraceCacheCall(ctx, "get", key)
	defer span.End()
	start := time.Now()

	val, err := rc.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		observe("get", start, nil)
		return "", ErrCacheMiss
	}
	observe("get", start, err)
	telemetry.RecordServiceError(span, "redis", err)
	return val, err
}

// SetEx stores a value with an expiration. A zero ttl keeps the key forever.
func (rc *RedisClient) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	ctx, span := telemetry.TraceCacheCall(ctx, "set", key)
	defer span.End()
	start := time.Now()

	err := rc.client.Set(ctx, key, value, ttl).Err()
	observe("set", start, err)
	telemetry.RecordServiceError(span, "redis", err)
	return err
}

// Del deletes one or more keys
func (rc *RedisClient) Del(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := rc.client.Del(ctx, keys...).Err()
	observe("del", start, err)
	return err
}

// IncrWindow increments key and starts its expiry on the first hit of a window
func (rc *RedisClient) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	ctx, span := telemetry.TraceCacheCall(ctx, "incr", key)
	defer span.End()
	start := time.Now()

	n, err := rc.client.Incr(ctx, key).Result()
	if err == nil && n == 1 {
		err = rc.client.Expire(ctx, key, window).Err()
	}
	observe("incr", start, err)
	if err != nil {
		telemetry.RecordServiceError(span, "redis", err)
		return 0, err
	}
	return n, nil
}

// TTL returns the time-to-live for a key
func (rc *RedisClient) TTL(ctx context.Context, key string) (time.Duration, error) {
	return rc.client.TTL(ctx, key).Result()
}

func observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m := metrics.Get()
	m.RedisOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	m.RedisOperationsTotal.WithLabelValues(operation, status).Inc()
}
