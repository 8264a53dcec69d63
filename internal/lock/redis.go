package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"taxdecl/internal/config"
	"taxdecl/internal/domain"
	"taxdecl/internal/logging"
	"taxdecl/internal/port"
)

const retryInterval = 100 * time.Millisecond

type redisLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	prefix string
	logger logrus.FieldLogger
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisLocker returns an OwnerLocker backed by redislock. Waiting callers
// retry with linear backoff for at most cfg.LockWait.
func NewRedisLocker(rdb redislock.RedisClient, cfg *config.RedisConfig, logger logrus.FieldLogger) port.OwnerLocker {
	return &redisLocker{
		locker: redislock.New(rdb),
		ttl:    cfg.LockTTL,
		wait:   cfg.LockWait,
		prefix: cfg.KeyPrefix,
		logger: logging.OrDefault(logger),
	}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := l.prefix + key
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	lk, err := l.locker.Obtain(waitCtx, lockKey, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(retryInterval),
	})
	// The wait budget can also run out inside a Redis round trip.
	waitExpired := errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil
	if errors.Is(err, redislock.ErrNotObtained) || waitExpired {
		return nil, fmt.Errorf("%w: %s", domain.ErrLockNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("redisLocker.Lock: %w", err)
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := lk.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.WithFields(logrus.Fields{"component": "redisLocker.Lock", "key": lockKey}).
				WithError(err).Warn("releasing owner lock")
		}
	}, nil
}
