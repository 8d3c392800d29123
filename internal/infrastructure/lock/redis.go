package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/folio-api/internal/config"
	domainRepo "github.com/sangkips/folio-api/internal/domain/repository"
	"github.com/sangkips/folio-api/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects to redis and verifies the connection with a ping
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig, log logrus.FieldLogger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 100,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}
	log.WithField("address", cfg.Address).Info("connected to redis")
	return client, nil
}

// RedisLocker serializes ledger writers across instances with a redis lease
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
	log    logrus.FieldLogger
}

var _ domainRepo.LedgerLocker = (*RedisLocker)(nil)

// NewRedisLocker creates a locker. The lease expires after cfg.TTL so a crashed
// holder cannot block a ledger forever.
func NewRedisLocker(client redislock.RedisClient, cfg *config.LockConfig, log logrus.FieldLogger) *RedisLocker {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	retry := redislock.NoRetry()
	if cfg.RetryCount > 0 {
		retry = redislock.LimitRetry(redislock.LinearBackoff(cfg.RetryInterval), cfg.RetryCount)
	}
	return &RedisLocker{
		client: redislock.New(client),
		ttl:    ttl,
		retry:  retry,
		log:    log,
	}
}

// Key returns the redis key guarding a ledger
func Key(ledgerID uuid.UUID) string {
	return fmt.Sprintf("ledger:%s", ledgerID)
}

// Acquire takes the ledger's lease, retrying per the configured strategy.
// A lease still held by another writer after the retries is a Conflict.
func (r *RedisLocker) Acquire(ctx context.Context, ledgerID uuid.UUID) (func(context.Context) error, error) {
	key := Key(ledgerID)
	l, err := r.client.Obtain(ctx, key, r.ttl, &redislock.Options{RetryStrategy: r.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		r.log.WithField("key", key).Warn("could not obtain ledger lock")
		return nil, apperror.NewConflictError("ledger is being updated, retry shortly")
	}
	if err != nil {
		return nil, fmt.Errorf("obtain ledger lock: %w", err)
	}

	release := func(ctx context.Context) error {
		err := l.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			r.log.WithField("key", key).Warn("ledger lock expired before release")
			return nil
		}
		return err
	}
	return release, nil
}
