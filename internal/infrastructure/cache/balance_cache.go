package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appledger "github.com/silver-g8/furniture-api-sub000/internal/application/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/config"
)

const defaultBalanceTTL = 5 * time.Minute

// RedisBalanceCache caches counterparty outstanding balances in Redis. The
// database column written by the reconciler stays authoritative; a stale or
// unavailable cache only costs an extra read of that column.
type RedisBalanceCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisBalanceCacheOption is a functional option for configuring the cache
type RedisBalanceCacheOption func(*RedisBalanceCache)

// WithBalanceTTL sets how long cached balances stay valid
func WithBalanceTTL(ttl time.Duration) RedisBalanceCacheOption {
	return func(c *RedisBalanceCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger for the cache
func WithLogger(logger *zap.Logger) RedisBalanceCacheOption {
	return func(c *RedisBalanceCache) {
		c.logger = logger
	}
}

// NewRedisBalanceCache creates a new Redis-backed balance cache and verifies
// the connection
func NewRedisBalanceCache(cfg config.RedisConfig, opts ...RedisBalanceCacheOption) (*RedisBalanceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisBalanceCache{
		client:     client,
		ownsClient: true,
		ttl:        defaultBalanceTTL,
		logger:     zap.NewNop(),
	}
	if cfg.BalanceTTL > 0 {
		cache.ttl = cfg.BalanceTTL
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisBalanceCacheWithClient creates a cache over an existing Redis
// client. The caller retains ownership of the client.
func NewRedisBalanceCacheWithClient(client *redis.Client, opts ...RedisBalanceCacheOption) *RedisBalanceCache {
	cache := &RedisBalanceCache{
		client:     client,
		ownsClient: false,
		ttl:        defaultBalanceTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// balanceKey generates the cache key for a counterparty balance
func (c *RedisBalanceCache) balanceKey(kind ledger.CounterpartyKind, counterpartyID uuid.UUID) string {
	return fmt.Sprintf("ledger:balance:%s:%s", kind, counterpartyID)
}

// Get retrieves a cached balance. The second return value is false on a miss.
func (c *RedisBalanceCache) Get(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID) (decimal.Decimal, bool, error) {
	data, err := c.client.Get(ctx, c.balanceKey(kind, counterpartyID)).Result()
	if err == redis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get balance from cache: %w", err)
	}

	balance, err := decimal.NewFromString(data)
	if err != nil {
		// Corrupt entry; treat as a miss so the caller falls back to the
		// database column.
		c.logger.Warn("Discarding unparsable cached balance",
			zap.String("kind", kind.String()),
			zap.String("counterparty_id", counterpartyID.String()),
			zap.Error(err))
		return decimal.Zero, false, nil
	}
	return balance, true, nil
}

// Set stores a balance with the configured TTL
func (c *RedisBalanceCache) Set(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID, balance decimal.Decimal) error {
	err := c.client.Set(ctx, c.balanceKey(kind, counterpartyID), balance.String(), c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache balance: %w", err)
	}
	return nil
}

// Invalidate drops the cached balance after reconciliation rewrote the
// database column
func (c *RedisBalanceCache) Invalidate(ctx context.Context, kind ledger.CounterpartyKind, counterpartyID uuid.UUID) error {
	err := c.client.Del(ctx, c.balanceKey(kind, counterpartyID)).Err()
	if err != nil {
		return fmt.Errorf("failed to invalidate cached balance: %w", err)
	}
	return nil
}

// Close closes the Redis client if this cache owns it
func (c *RedisBalanceCache) Close() error {
	if !c.ownsClient {
		return nil
	}
	return c.client.Close()
}

// Compile-time interface check
var _ appledger.BalanceCache = (*RedisBalanceCache)(nil)
