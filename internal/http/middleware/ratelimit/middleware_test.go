package ratelimit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
	"ecodeli/internal/rpc"
	"ecodeli/internal/session"
)

type stubLimiter struct {
	allow bool
}

func (s stubLimiter) Allow(string) bool { return s.allow }

type keyRecorder struct {
	keys []string
}

func (k *keyRecorder) Allow(key string) bool {
	k.keys = append(k.keys, key)
	return true
}

func TestMiddleware_Allows_RequestPassesToNext(t *testing.T) {
	t.Parallel()

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	m := New(logx.Nop(), nil, stubLimiter{allow: true})
	h := m.Handler()(next)

	r := httptest.NewRequest(http.MethodPost, "http://example/api/rpc/delivery.validate", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code, "expected 200")
	require.Equal(t, 1, nextCalled, "expected next called once")
}

func TestMiddleware_Blocks_Returns429AndIncrementsCounter(t *testing.T) {
	t.Parallel()

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
		w.WriteHeader(http.StatusOK)
	})

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ratelimit_denied_total",
		Help: "denied requests",
	})

	m := New(logx.Nop(), counter, stubLimiter{allow: false}, WithRetryAfter(1500*time.Millisecond))
	h := m.Handler()(next)

	r := httptest.NewRequest(http.MethodPost, "http://example/api/rpc/delivery.validate", nil)
	r.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	require.Equal(t, 0, nextCalled, "expected next not called")
	require.Equal(t, http.StatusTooManyRequests, w.Code, "expected 429")
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, "2", w.Header().Get("Retry-After"))
	require.Equal(t, float64(1), testutil.ToFloat64(counter), "expected counter=1")

	var res rpc.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	require.False(t, res.Success)
	require.Equal(t, rpc.CodeRateLimited, res.Code)
}

func TestMiddleware_KeysByClientIP(t *testing.T) {
	t.Parallel()

	rec := &keyRecorder{}
	h := New(nil, nil, rec).Handler()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.1:2000", "10.0.0.2:1000"} {
		r := httptest.NewRequest(http.MethodPost, "http://example/", nil)
		r.RemoteAddr = addr
		h.ServeHTTP(httptest.NewRecorder(), r)
	}

	require.Equal(t, []string{"ip:10.0.0.1", "ip:10.0.0.1", "ip:10.0.0.2"}, rec.keys)
}

func TestMiddleware_KeysBySessionUser(t *testing.T) {
	t.Parallel()

	rec := &keyRecorder{}
	h := New(nil, nil, rec).Handler()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	sess := &session.Session{UserID: 7, Role: domain.RoleCourier}
	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000", "10.0.0.3:1000"} {
		r := httptest.NewRequest(http.MethodPost, "http://example/", nil)
		r.RemoteAddr = addr
		r = r.WithContext(session.WithSession(r.Context(), sess))
		h.ServeHTTP(httptest.NewRecorder(), r)
	}

	require.Equal(t, []string{"user:7", "user:7", "user:7"}, rec.keys)
}

func TestMiddleware_WithKey(t *testing.T) {
	t.Parallel()

	rec := &keyRecorder{}
	h := New(nil, nil, rec, WithKey(IPKey)).Handler()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	r := httptest.NewRequest(http.MethodPost, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:1000"
	r = r.WithContext(session.WithSession(r.Context(), &session.Session{UserID: 7}))
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.Equal(t, []string{"ip:10.0.0.9"}, rec.keys)
}

func TestMiddleware_RotatingAddressDoesNotResetUserBudget(t *testing.T) {
	t.Parallel()

	clk := newFakeClock(time.Unix(0, 0))
	limiter := NewTokenBucketPerWindow(clk.Now, 3, time.Minute, time.Hour, 0)
	h := New(logx.Nop(), nil, limiter).Handler()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	sess := &session.Session{UserID: 42, Role: domain.RoleCourier}
	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodPost, "http://example/", nil)
		r.RemoteAddr = fmt.Sprintf("198.51.100.%d:4000", i+1)
		r = r.WithContext(session.WithSession(r.Context(), sess))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}

	require.Equal(t, []int{
		http.StatusOK, http.StatusOK, http.StatusOK,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
	}, codes)
}

func TestMiddleware_TokenBucketEndToEnd(t *testing.T) {
	t.Parallel()

	clk := newFakeClock(time.Unix(0, 0))
	limiter := NewTokenBucketPerWindow(clk.Now, 3, time.Minute, time.Hour, 0)
	h := New(logx.Nop(), nil, limiter).Handler()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func() int {
		r := httptest.NewRequest(http.MethodPost, "http://example/", nil)
		r.RemoteAddr = "1.2.3.4:5678"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, call())
	}
	require.Equal(t, http.StatusTooManyRequests, call())

	clk.Add(20 * time.Second)
	require.Equal(t, http.StatusOK, call())
}
