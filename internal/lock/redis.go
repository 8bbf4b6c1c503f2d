package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

const extendScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`

// Redis блокирует ключи между процессами через SET NX PX.
type Redis struct {
	client  *redis.Client
	prefix  string
	release *redis.Script
	extend  *redis.Script
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{
		client:  client,
		prefix:  prefix,
		release: redis.NewScript(releaseScript),
		extend:  redis.NewScript(extendScript),
	}
}

func (l *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	redisKey := key
	if l.prefix != "" {
		redisKey = l.prefix + ":" + key
	}
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, redisKey, token, normalizeTTL(ttl)).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBusy
	}
	return &redisLease{locker: l, key: redisKey, token: token}, nil
}

type redisLease struct {
	locker *Redis
	key    string
	token  string
	once   sync.Once
}

func (l *redisLease) Extend(ctx context.Context, ttl time.Duration) error {
	extended, err := l.locker.extend.Run(ctx, l.locker.client, []string{l.key}, l.token, normalizeTTL(ttl).Milliseconds()).Int64()
	if err != nil {
		return err
	}
	if extended == 0 {
		return ErrLost
	}
	return nil
}

func (l *redisLease) Release() {
	l.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		defer cancel()
		_ = l.locker.release.Run(ctx, l.locker.client, []string{l.key}, l.token).Err()
	})
}

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl < time.Millisecond {
		return time.Second
	}
	return ttl
}
