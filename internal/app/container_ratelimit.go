package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"ecodeli/internal/config"
	"ecodeli/internal/http/middleware/ratelimit"
	"ecodeli/internal/logx"
)

// newRateLimiter budgets delivery code attempts per signed-in user.
func newRateLimiter(cfg *config.Config, clock ratelimit.Clock) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewTokenBucketLimiter(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

func newRateLimitClock() ratelimit.Clock {
	return time.Now
}

type rateLimitIn struct {
	dig.In
	Config  *config.Config
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	opts := []ratelimit.Option{ratelimit.WithKey(ratelimit.SessionKey)}
	if in.Config.RateLimit.Rate > 0 {
		// time until one token refills
		opts = append(opts, ratelimit.WithRetryAfter(time.Duration(float64(time.Second)/in.Config.RateLimit.Rate)))
	}
	return ratelimit.New(in.Logger, in.Counter, in.Limiter, opts...)
}
