package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// HeartbeatThrottle caps how often a single controller can persist a
// heartbeat. State lives in Redis with a TTL per controller so it holds
// across instances and evicts itself.
type HeartbeatThrottle struct {
	client      *redis.Client
	minInterval time.Duration
}

func NewHeartbeatThrottle(client *redis.Client, minInterval time.Duration) *HeartbeatThrottle {
	if minInterval <= 0 {
		minInterval = 15 * time.Second
	}
	return &HeartbeatThrottle{client: client, minInterval: minInterval}
}

// Allow reports whether this controller may record a heartbeat now. A nil
// client (throttling disabled) always allows. Redis being down also allows:
// dropping heartbeats is worse than double-counting them.
func (t *HeartbeatThrottle) Allow(ctx context.Context, controllerID string) bool {
	if t == nil || t.client == nil {
		return true
	}
	ok, err := t.client.SetNX(ctx, "hb:"+controllerID, 1, t.minInterval).Result()
	if err != nil {
		return true
	}
	return ok
}
