package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// fixedWindow incrementa el contador y fija el TTL en la primera petición de la ventana.
// Devuelve {contador, ttl restante en ms}.
var fixedWindow = goredis.NewScript(`
	local n = redis.call('INCR', KEYS[1])
	if n == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	return { n, ttl }
`)

// Decision resultado de consultar el limitador.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter ventana fija por clave: a lo sumo limit peticiones cada window.
type RateLimiter struct {
	rdb    goredis.Scripter
	prefix string
	limit  int
	window time.Duration
}

// NewRateLimiter construye el limitador. prefix separa las claves de otros usos de Redis.
func NewRateLimiter(rdb goredis.Scripter, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// Allow cuenta la petición de key y decide si pasa.
func (l *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := fixedWindow.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("redis: rate limit: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("redis: rate limit: respuesta inesperada %v", res)
	}
	return decide(res[0], res[1], l.limit, l.window), nil
}

func decide(count, ttlMs int64, limit int, window time.Duration) Decision {
	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}
	d := Decision{Allowed: count <= int64(limit), Limit: limit, Remaining: int(remaining)}
	if !d.Allowed {
		d.RetryAfter = time.Duration(ttlMs) * time.Millisecond
		if ttlMs < 0 {
			d.RetryAfter = window
		}
	}
	return d
}
