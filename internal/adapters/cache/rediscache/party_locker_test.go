package rediscache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bizbooks/internal/apperrors"
	"github.com/SscSPs/bizbooks/internal/middleware"
)

func TestLockKey(t *testing.T) {
	assert.Equal(t, "bizbooks:party-lock:customer:7", lockKey("customer:7"))
}

func TestAcquire_UnreachableRedisIsNotALockConflict(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	release, err := NewPartyLocker(client).Acquire(ctx, "customer:7")
	require.Error(t, err)
	assert.Nil(t, release)
	assert.NotErrorIs(t, err, apperrors.ErrLocked, "callers fall back to the database lock on transport errors")
}

type recordingReleaser struct {
	ctxErr error
	calls  int
	err    error
}

func (r *recordingReleaser) Release(ctx context.Context) error {
	r.calls++
	r.ctxErr = ctx.Err()
	return r.err
}

func TestRelease_OutlivesCancelledRequest(t *testing.T) {
	lock := &recordingReleaser{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	releaseFunc(lock, "customer:7")(ctx)
	assert.Equal(t, 1, lock.calls)
	assert.NoError(t, lock.ctxErr, "release must not inherit the request cancellation")
}

func TestRelease_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := middleware.WithLogger(context.Background(), logger)

	releaseFunc(&recordingReleaser{err: errors.New("connection reset")}, "customer:7")(ctx)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "Failed to release party lock")
	assert.Contains(t, buf.String(), "key=customer:7")
	assert.Contains(t, buf.String(), "connection reset")
}
