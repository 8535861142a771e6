package ratelimit

import "time"

// RateLimitConfig bounds webhook intake per provider. A zero limit disables
// the corresponding window.
type RateLimitConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

type RateLimiter interface {
	Allow(key string, config RateLimitConfig) (bool, error)
	GetRemaining(key string, window time.Duration) (int64, error)
	Reset(key string) error
}

// NoopLimiter admits everything. Used when redis is not configured.
type NoopLimiter struct{}

func (NoopLimiter) Allow(string, RateLimitConfig) (bool, error) { return true, nil }

func (NoopLimiter) GetRemaining(string, time.Duration) (int64, error) { return 0, nil }

func (NoopLimiter) Reset(string) error { return nil }
