// Package rediscache holds the Redis-backed adapters: the cross-process party lock.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	"github.com/SscSPs/bizbooks/internal/middleware"
)

const (
	keyPrefix = "bizbooks:party-lock:"
	lockTTL   = 30 * time.Second
)

// PartyLocker serialises party ledger writers across processes with bsm/redislock.
type PartyLocker struct {
	locker *redislock.Client
	retry  redislock.RetryStrategy
}

var _ portsrepo.PartyLocker = (*PartyLocker)(nil)

// NewPartyLocker creates a locker on client. Contended locks are retried for about a second before
// Acquire gives up with apperrors.ErrLocked.
func NewPartyLocker(client *redis.Client) *PartyLocker {
	return &PartyLocker{
		locker: redislock.New(client),
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 20),
	}
}

func lockKey(key string) string {
	return keyPrefix + key
}

// Acquire obtains the lock for key and returns its release function.
func (l *PartyLocker) Acquire(ctx context.Context, key string) (func(context.Context), error) {
	lock, err := l.locker.Obtain(ctx, lockKey(key), lockTTL, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: party %s is being updated by another request", apperrors.ErrLocked, key)
	} else if err != nil {
		return nil, fmt.Errorf("failed to obtain party lock %s: %w", key, err)
	}
	return releaseFunc(lock, key), nil
}

type releaser interface {
	Release(ctx context.Context) error
}

// releaseFunc returns a release that ignores the caller's cancellation. A failed release is logged;
// the lock then expires with its TTL.
func releaseFunc(lock releaser, key string) func(context.Context) {
	return func(ctx context.Context) {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to release party lock",
				slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

// Connect opens a client for addr and pings it.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       0, // use default DB
		PoolSize: 20,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect redis at %s: %w", addr, err)
	}
	return client, nil
}
