package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestThrottle(t *testing.T, interval time.Duration) (*HeartbeatThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewHeartbeatThrottle(client, interval), mr
}

func TestThrottleAllow(t *testing.T) {
	throttle, mr := newTestThrottle(t, 15*time.Second)
	ctx := context.Background()

	assert.True(t, throttle.Allow(ctx, "ctrl-1"))
	assert.False(t, throttle.Allow(ctx, "ctrl-1")) // within the interval

	// A different controller is unaffected.
	assert.True(t, throttle.Allow(ctx, "ctrl-2"))

	// The key expires after the interval.
	mr.FastForward(16 * time.Second)
	assert.True(t, throttle.Allow(ctx, "ctrl-1"))
}

func TestThrottleDisabled(t *testing.T) {
	throttle := NewHeartbeatThrottle(nil, 15*time.Second)

	ctx := context.Background()
	assert.True(t, throttle.Allow(ctx, "ctrl-1"))
	assert.True(t, throttle.Allow(ctx, "ctrl-1"))
}

func TestThrottleAllowsWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	throttle := NewHeartbeatThrottle(client, 15*time.Second)
	mr.Close()

	assert.True(t, throttle.Allow(context.Background(), "ctrl-1"))
}
