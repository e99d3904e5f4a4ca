package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig contains configuration for outbound-send rate limiting.
type RateLimitConfig struct {
	SendLimit  int           // Max outbound sends per window
	SendWindow time.Duration // Send rate limit window
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		SendLimit:  60, // 60 outbound sends per minute
		SendWindow: 60 * time.Second,
	}
}

// RateLimiter throttles outbound platform sends using Redis. The Graph API
// applies its own messaging quotas upstream; this keeps a misbehaving CRM
// client from burning through them.
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
	Limit     int
}

// AllowSend checks whether the client identified by key (the caller IP) may
// record another outbound send.
func (r *RateLimiter) AllowSend(ctx context.Context, key string) (*RateLimitResult, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:sends", key)
	return r.checkLimit(ctx, redisKey, r.config.SendLimit, r.config.SendWindow)
}

// checkLimit performs an atomic fixed-window increment and check.
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	script := goredis.NewScript(`
		local key = KEYS[1]
		local limit = tonumber(ARGV[1])
		local window = tonumber(ARGV[2])

		local current = redis.call('GET', key)
		if current == false then
			current = 0
		else
			current = tonumber(current)
		end

		if current >= limit then
			local ttl = redis.call('TTL', key)
			return {0, limit - current, ttl}
		end

		current = redis.call('INCR', key)
		if current == 1 then
			redis.call('EXPIRE', key, window)
		end
		local ttl = redis.call('TTL', key)
		return {1, limit - current, ttl}
	`)

	res, err := script.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Slice()
	if err != nil {
		return nil, err
	}

	allowed, _ := res[0].(int64)
	remaining, _ := res[1].(int64)
	ttl, _ := res[2].(int64)
	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitResult{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetIn:   time.Duration(ttl) * time.Second,
		Limit:     limit,
	}, nil
}
