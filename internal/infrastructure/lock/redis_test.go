package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/pkg/logger"
)

func newTestRedisLock(t *testing.T, wait time.Duration) *Redis {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	client, err := NewRedisClient(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client, 2*time.Second, wait, logger.NewNop())
}

func TestRedis_LockAndRelease(t *testing.T) {
	locker := newTestRedisLock(t, 100*time.Millisecond)
	ctx := context.Background()
	userID := time.Now().UnixNano()

	unlock, err := locker.Lock(ctx, userID)
	require.NoError(t, err)

	_, err = locker.Lock(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrLockTimeout)

	unlock()

	unlock, err = locker.Lock(ctx, userID)
	require.NoError(t, err)
	unlock()
}

func TestRedis_ReleaseKeepsForeignToken(t *testing.T) {
	locker := newTestRedisLock(t, 50*time.Millisecond)
	ctx := context.Background()
	userID := time.Now().UnixNano()
	key := keyPrefix + "foreign"

	require.NoError(t, locker.client.Set(ctx, key, "someone-else", time.Second).Err())
	t.Cleanup(func() { locker.client.Del(context.Background(), key) })

	locker.unlockFunc(key, "our-token", userID)()

	val, err := locker.client.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "someone-else", val)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}
