package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/pkg/logger"
)

const (
	defaultTTL   = 10 * time.Second
	pollInterval = 25 * time.Millisecond
	keyPrefix    = "fridgebot:lock:user:"
)

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var _ domain.UserLocker = (*Redis)(nil)

// Redis is a per-user lock shared by every instance pointing at the same Redis
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	log    *logger.Logger
}

// NewRedisClient connects to the Redis server described by url and verifies it answers
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedis creates a Redis lock. ttl caps how long a crashed holder can block a user.
func NewRedis(client redis.UniversalClient, ttl, wait time.Duration, log *logger.Logger) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{
		client: client,
		ttl:    ttl,
		wait:   wait,
		log:    log.With("component", "RedisLock"),
	}
}

// Lock polls SET NX until the key is ours, the wait elapses or ctx is done
func (r *Redis) Lock(ctx context.Context, userID int64) (func(), error) {
	key := fmt.Sprintf("%s%d", keyPrefix, userID)
	token := uuid.NewString()

	if r.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.wait)
		defer cancel()
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil && ctx.Err() == nil {
			r.log.Error("lock acquire failed", "user_id", userID, "error", err)
			return nil, fmt.Errorf("%w: acquire lock: %v", domain.ErrStorageUnavailable, err)
		}
		if ok {
			return r.unlockFunc(key, token, userID), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: user %d: %v", domain.ErrLockTimeout, userID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (r *Redis) unlockFunc(key, token string, userID int64) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil {
			// the key expires after ttl anyway
			r.log.Warn("lock release failed", "user_id", userID, "error", err)
		}
	}
}
