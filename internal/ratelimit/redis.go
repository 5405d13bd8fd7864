package ratelimit

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// allowScript keeps check-and-record atomic on the Redis side:
// prune the sorted set to the window, count, and only then append.
// KEYS[1] bucket key
// ARGV[1] window cutoff (ms score, removed inclusively)
// ARGV[2] max admitted per window
// ARGV[3] now (ms score)
// ARGV[4] unique member
// ARGV[5] key TTL (ms)
var allowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, ARGV[1])
local n = redis.call('ZCARD', KEYS[1])
if n >= tonumber(ARGV[2]) then
  return 0
end
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// RedisStore is the shared-counter variant of Store for multi-instance
// deployments. Same half-open count-in-window semantics as MemoryStore,
// with the window state in a Redis sorted set.
type RedisStore struct {
	rdb    *redis.Client
	window time.Duration
	max    int
	prefix string
	log    *zap.Logger
	seq    atomic.Int64
}

type RedisOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

func NewRedisStore(rdb *redis.Client, window time.Duration, max int, log *zap.Logger, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		window: window,
		max:    max,
		prefix: "bouncer:ratelimit",
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow implements Store. A Redis transport error fails open: the
// process-wide flood guard still bounds volume, and losing signups to a
// limiter outage is the worse trade. The error goes to the audit log.
func (s *RedisStore) Allow(ctx context.Context, identity string, now time.Time) bool {
	key := s.prefix + ":" + identity
	nowMs := now.UnixMilli()
	cutoffMs := now.Add(-s.window).UnixMilli()
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + strconv.FormatInt(s.seq.Add(1), 10)

	res, err := allowScript.Run(ctx, s.rdb, []string{key},
		cutoffMs,
		s.max,
		nowMs,
		member,
		s.window.Milliseconds(),
	).Int()
	if err != nil {
		s.log.Warn("[ratelimit][redis] check failed, allowing request", zap.Error(err))
		return true
	}
	return res == 1
}
