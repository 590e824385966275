package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"ecodeli/internal/logx"
	"ecodeli/internal/rpc"
	"ecodeli/internal/session"
)

// KeyFunc names the budget a request is charged to.
type KeyFunc func(*http.Request) string

// Middleware rejects requests whose client exhausted its limiter budget.
type Middleware struct {
	logger     logx.Logger
	counter    prometheus.Counter
	limiter    Limiter
	key        KeyFunc
	retryAfter time.Duration
}

// Option configures a Middleware.
type Option func(*Middleware)

// WithRetryAfter sets the Retry-After hint sent with a 429. It is rounded up to whole seconds.
func WithRetryAfter(d time.Duration) Option {
	return func(m *Middleware) {
		if d > 0 {
			m.retryAfter = d
		}
	}
}

// WithKey replaces the request key. The default is SessionKey.
func WithKey(fn KeyFunc) Option {
	return func(m *Middleware) {
		if fn != nil {
			m.key = fn
		}
	}
}

// New creates a Middleware. A nil limiter lets every request through.
func New(logger logx.Logger, counter prometheus.Counter, limiter Limiter, opts ...Option) *Middleware {
	if limiter == nil {
		limiter = NopLimiter{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	m := &Middleware{
		logger:     logger,
		counter:    counter,
		limiter:    limiter,
		key:        SessionKey,
		retryAfter: time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handler returns chi-style middleware.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := m.key(r)
			if m.limiter.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			if m.counter != nil {
				m.counter.Inc()
			}
			m.logger.Warn("rate limit exceeded",
				logx.String("key", key),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
				logx.String("request_id", middleware.GetReqID(r.Context())),
			)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(m.retryAfter)))
			w.WriteHeader(http.StatusTooManyRequests)
			body := rpc.Result{Error: "too many requests", Code: rpc.CodeRateLimited}
			if err := json.NewEncoder(w).Encode(body); err != nil {
				// the client may have gone away
				m.logger.Debug("rate limit response write failed",
					logx.String("key", key),
					logx.Err(err),
				)
			}
		})
	}
}

func retrySeconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}

// SessionKey charges authenticated requests to the session user and the rest
// to the client address. Forwarded headers cannot move a signed-in user to a
// fresh budget.
func SessionKey(r *http.Request) string {
	if sess, ok := session.FromContext(r.Context()); ok {
		return "user:" + strconv.FormatInt(sess.UserID, 10)
	}
	return IPKey(r)
}

// IPKey charges every request to the client address.
func IPKey(r *http.Request) string {
	return "ip:" + clientIP(r)
}

// clientIP expects RemoteAddr to be rewritten by middleware.RealIP upstream.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
