package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// OperationLimiter keeps one token bucket per upstream operation so a burst
// of airport lookups cannot starve the itinerary search of quota.
type OperationLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults RateLimitConfig
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 5,
		BurstSize:         5,
	}
}

func NewOperationLimiter(config RateLimitConfig) *OperationLimiter {
	return &OperationLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewOperationLimiterWithDefaults() *OperationLimiter {
	return NewOperationLimiter(DefaultConfig())
}

func (p *OperationLimiter) GetLimiter(operation string) *rate.Limiter {
	p.mu.RLock()
	limiter, exists := p.limiters[operation]
	p.mu.RUnlock()

	if exists {
		return limiter
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, exists = p.limiters[operation]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(p.defaults.RequestsPerSecond), p.defaults.BurstSize)
	p.limiters[operation] = limiter
	return limiter
}

func (p *OperationLimiter) SetOperationLimit(operation string, rps float64, burst int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.limiters[operation] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the operation's bucket has a token or ctx is done.
func (p *OperationLimiter) Wait(ctx context.Context, operation string) error {
	return p.GetLimiter(operation).Wait(ctx)
}
