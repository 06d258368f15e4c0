package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/pkg/config"
)

func TestDecide(t *testing.T) {
	d := decide(1, 60000, 3, time.Minute)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Remaining)

	d = decide(3, 1000, 3, time.Minute)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d = decide(4, 1500, 3, time.Minute)
	assert.False(t, d.Allowed)
	assert.Equal(t, 1500*time.Millisecond, d.RetryAfter)

	d = decide(9, -1, 3, time.Minute)
	assert.Equal(t, time.Minute, d.RetryAfter, "sin TTL se espera la ventana completa")
}

// Requiere un Redis real: REDIS_ADDR=localhost:6379 go test ./...
func TestRateLimiter_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR no definido")
	}
	ctx := context.Background()
	rdb, err := NewClient(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer rdb.Close()

	l := NewRateLimiter(rdb, "test:"+uuid.NewString(), 2, time.Minute)
	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))

	d, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
