package ratelimit

import (
	"container/list"
	"sync"
	"time"
)

// Config stores TokenBucketLimiter settings.
type Config struct {
	Rate       float64       // tokens refilled per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets older than this are dropped; 0 keeps them
	MaxBuckets int           // 0 means unbounded
}

// TokenBucketLimiter keeps one bucket per key. Buckets are ordered by last
// use so idle ones expire from the tail and, when MaxBuckets is reached, the
// least recently seen key is evicted to make room.
type TokenBucketLimiter struct {
	cfg Config
	now Clock

	mu    sync.Mutex
	keys  map[string]*list.Element
	order *list.List // front is the most recently seen bucket
}

type bucket struct {
	key    string
	tokens float64
	last   time.Time
}

// NewTokenBucketLimiter creates a limiter. A nil clock means time.Now.
func NewTokenBucketLimiter(now Clock, cfg Config) *TokenBucketLimiter {
	if now == nil {
		now = time.Now
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucketLimiter{
		cfg:   cfg,
		now:   now,
		keys:  make(map[string]*list.Element),
		order: list.New(),
	}
}

// NewTokenBucketPerWindow allows limit attempts per window, all of them up front.
func NewTokenBucketPerWindow(now Clock, limit int, window, ttl time.Duration, maxBuckets int) *TokenBucketLimiter {
	if window <= 0 {
		window = time.Second
	}
	if limit <= 0 {
		limit = 1
	}
	return NewTokenBucketLimiter(now, Config{
		Rate:       float64(limit) / window.Seconds(),
		Burst:      limit,
		TTL:        ttl,
		MaxBuckets: maxBuckets,
	})
}

// Allow spends one token from key's bucket.
func (l *TokenBucketLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.expire(now)
	b := l.touch(key, now)

	if dt := now.Sub(b.last); dt > 0 {
		b.tokens = min(b.tokens+dt.Seconds()*l.cfg.Rate, float64(l.cfg.Burst))
		b.last = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Len reports how many keys are tracked.
func (l *TokenBucketLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

func (l *TokenBucketLimiter) touch(key string, now time.Time) *bucket {
	if el, ok := l.keys[key]; ok {
		l.order.MoveToFront(el)
		return el.Value.(*bucket)
	}
	if l.cfg.MaxBuckets > 0 && len(l.keys) >= l.cfg.MaxBuckets {
		l.remove(l.order.Back())
	}
	b := &bucket{key: key, tokens: float64(l.cfg.Burst), last: now}
	l.keys[key] = l.order.PushFront(b)
	return b
}

// expire drops buckets whose last use is older than TTL. A bucket idle that
// long has refilled anyway unless Rate*TTL < Burst.
func (l *TokenBucketLimiter) expire(now time.Time) {
	if l.cfg.TTL <= 0 {
		return
	}
	for el := l.order.Back(); el != nil; el = l.order.Back() {
		if now.Sub(el.Value.(*bucket).last) <= l.cfg.TTL {
			return
		}
		l.remove(el)
	}
}

func (l *TokenBucketLimiter) remove(el *list.Element) {
	if el == nil {
		return
	}
	delete(l.keys, l.order.Remove(el).(*bucket).key)
}
