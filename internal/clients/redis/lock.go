package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

// ErrNotAcquired is returned when another holder owns the key.
var ErrNotAcquired = errors.New("lock not acquired")

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

type Lease interface {
	Release(ctx context.Context) error
}

// releaseScript deletes the key only while it still holds our token, so an
// expired holder cannot drop a lock someone else has since taken.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
}

type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

func NewLocker(log *logger.Logger, cfg Config) (Locker, func() error, error) {
	if log == nil {
		return nil, nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewLockerFromClient(log, rdb, cfg.KeyPrefix), rdb.Close, nil
}

func NewLockerFromClient(log *logger.Logger, rdb goredis.UniversalClient, prefix string) Locker {
	return &redisLocker{
		log:    log.With("service", "RedisLocker"),
		rdb:    rdb,
		prefix: prefix,
	}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	full := l.prefix + key
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", full, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &redisLease{l: l, key: full, token: token}, nil
}

type redisLease struct {
	l     *redisLocker
	key   string
	token string
}

func (r *redisLease) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, r.l.rdb, []string{r.key}, r.token).Int()
	if err != nil {
		return fmt.Errorf("redis release %s: %w", r.key, err)
	}
	if n == 0 {
		r.l.log.Warn("Lock expired before release", "key", r.key)
	}
	return nil
}

// localLocker is an in-process Locker for single-instance deployments and tests.
type localLocker struct {
	mu    sync.Mutex
	held  map[string]localEntry
	clock func() time.Time
}

type localEntry struct {
	token   string
	expires time.Time
}

func NewLocalLocker() Locker {
	return &localLocker{held: map[string]localEntry{}, clock: time.Now}
}

func (l *localLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if e, ok := l.held[key]; ok && now.Before(e.expires) {
		return nil, ErrNotAcquired
	}
	token := uuid.NewString()
	l.held[key] = localEntry{token: token, expires: now.Add(ttl)}
	return &localLease{l: l, key: key, token: token}, nil
}

type localLease struct {
	l     *localLocker
	key   string
	token string
}

func (r *localLease) Release(ctx context.Context) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	if e, ok := r.l.held[r.key]; ok && e.token == r.token {
		delete(r.l.held, r.key)
	}
	return nil
}
