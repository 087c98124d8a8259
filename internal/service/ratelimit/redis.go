package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// reserveScript books slot = max(now, last + interval) atomically and keeps the key
// only as long as it can still delay a caller.
var reserveScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local interval = tonumber(ARGV[2])
local last = tonumber(redis.call('GET', KEYS[1]) or '0')
local slot = now
if last + interval > slot then
	slot = last + interval
end
redis.call('SET', KEYS[1], slot, 'PX', slot - now + interval)
return slot
`)

// RedisStore shares grant slots between processes through Redis.
type RedisStore struct {
	client redis.Scripter
	prefix string
}

func NewRedisStore(client redis.Scripter, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "markettemp"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Reserve(ctx context.Context, key string, now time.Time, interval time.Duration) (time.Time, error) {
	slot, err := reserveScript.Run(ctx, s.client,
		[]string{fmt.Sprintf("%s:ratelimit:%s", s.prefix, key)},
		ceilMillis(now.Sub(time.UnixMilli(0))),
		ceilMillis(interval),
	).Int64()
	if err != nil {
		return now, fmt.Errorf("rate limit script: %w", err)
	}
	return time.UnixMilli(slot), nil
}

// ceilMillis rounds d up to whole milliseconds so booked slots never fall short of now or of the interval.
func ceilMillis(d time.Duration) int64 {
	ms := d.Milliseconds()
	if time.Duration(ms)*time.Millisecond < d {
		ms++
	}
	return ms
}
