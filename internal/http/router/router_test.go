package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"ecodeli/internal/domain"
	"ecodeli/internal/http/handlers"
	"ecodeli/internal/http/middleware/ratelimit"
	"ecodeli/internal/http/router"
	"ecodeli/internal/locale"
	"ecodeli/internal/logx"
	"ecodeli/internal/rpc"
	"ecodeli/internal/session"
)

type validateIn struct {
	DeliveryID int64  `json:"delivery_id" validate:"required,gt=0"`
	Code       string `json:"code" validate:"required,len=6"`
}

type denyAfter struct {
	n int
}

func (d *denyAfter) Allow(string) bool {
	d.n--
	return d.n >= 0
}

// perKey allows n requests per key.
type perKey struct {
	mu   sync.Mutex
	n    int
	seen map[string]int
}

func (p *perKey) Allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seen == nil {
		p.seen = make(map[string]int)
	}
	p.seen[key]++
	return p.seen[key] <= p.n
}

func newTestServer(t *testing.T, limiter ratelimit.Limiter) (*httptest.Server, *session.Manager) {
	t.Helper()

	tokens := session.NewManager("test-secret", time.Hour, 2*time.Hour)
	locales := locale.NewSet([]string{"fr", "en"}, "fr")

	procs := rpc.NewRouter(nil, nil)
	procs.Register(
		rpc.Procedure[struct{}, string]{
			Name:   "site.locale",
			Access: rpc.Public,
			Handle: func(_ context.Context, c rpc.Caller, _ struct{}) (string, error) {
				return c.Locale, nil
			},
		},
		rpc.Procedure[validateIn, int64]{
			Name:   router.ValidateProcedure,
			Access: rpc.Roles(domain.RoleCourier),
			Handle: func(_ context.Context, c rpc.Caller, in validateIn) (int64, error) {
				return in.DeliveryID, nil
			},
		},
	)

	h := router.New(router.Deps{
		Logger:         logx.Nop(),
		Base:           handlers.New(nil),
		Auth:           handlers.NewAuthHandler(nil, nil),
		Merchant:       handlers.NewMerchantHandler(nil, nil),
		Docs:           handlers.NewDocsHandler(procs, nil),
		Site:           handlers.NewSiteHandler(handlers.SiteInfo{SiteURL: "https://ecodeli.test"}, locales, nil),
		Procedures:     procs.Handler(),
		ValidateLimit:  ratelimit.New(nil, nil, limiter).Handler(),
		Metrics:        promhttp.Handler(),
		Tokens:         tokens,
		Locales:        locales,
		AllowedOrigins: []string{"https://ecodeli.test"},
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, tokens
}

func noRedirect() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := noRedirect().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestRouter_Basics(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{"ping", http.MethodGet, "/ping", http.StatusOK},
		{"healthcheck", http.MethodHead, "/healthcheck", http.StatusNoContent},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"docs", http.MethodGet, "/api/docs", http.StatusOK},
		{"localized docs", http.MethodGet, "/en/api/docs", http.StatusOK},
		{"site", http.MethodGet, "/fr/", http.StatusOK},
		{"unknown locale", http.MethodGet, "/de/", http.StatusNotFound},
		{"unknown api route", http.MethodGet, "/api/nope", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/api/auth/login", http.StatusMethodNotAllowed},
		{"session without token", http.MethodGet, "/api/auth/session", http.StatusUnauthorized},
		{"merchant without token", http.MethodGet, "/api/merchant", http.StatusUnauthorized},
		{"unknown procedure", http.MethodPost, "/api/rpc/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, _ := do(t, req)
			require.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}

func TestRouter_RootRedirectsToNegotiatedLocale(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,fr;q=0.5")

	resp, _ := do(t, req)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/en/", resp.Header.Get("Location"))
	require.Contains(t, resp.Header.Values("Vary"), "Accept-Language")
}

func TestRouter_LocaleReachesProcedures(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)

	call := func(path, acceptLanguage string) string {
		req, err := http.NewRequest(http.MethodPost, srv.URL+path, nil)
		require.NoError(t, err)
		if acceptLanguage != "" {
			req.Header.Set("Accept-Language", acceptLanguage)
		}
		resp, body := do(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var res struct {
			Data string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(body, &res))
		return res.Data
	}

	require.Equal(t, "en", call("/en/api/rpc/site.locale", "fr"))
	require.Equal(t, "en", call("/api/rpc/site.locale", "en-GB"))
	require.Equal(t, "fr", call("/api/rpc/site.locale", ""))
}

func TestRouter_ValidateIsRateLimited(t *testing.T) {
	t.Parallel()

	srv, tokens := newTestServer(t, &denyAfter{n: 2})
	pair, err := tokens.Issue(&domain.User{ID: 7, Email: "c@ecodeli.test", Role: domain.RoleCourier})
	require.NoError(t, err)

	validate := func() int {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/rpc/delivery.validate", strings.NewReader(`{"delivery_id":1,"code":"K7M2QX"}`))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		resp, _ := do(t, req)
		return resp.StatusCode
	}

	require.Equal(t, http.StatusOK, validate())
	require.Equal(t, http.StatusOK, validate())
	require.Equal(t, http.StatusTooManyRequests, validate())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/rpc/site.locale", nil)
	require.NoError(t, err)
	resp, _ := do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, "other procedures are not limited")
}

func TestRouter_ValidateLimitFollowsSessionNotForwardedIP(t *testing.T) {
	t.Parallel()

	srv, tokens := newTestServer(t, &perKey{n: 2})
	pair, err := tokens.Issue(&domain.User{ID: 7, Email: "c@ecodeli.test", Role: domain.RoleCourier})
	require.NoError(t, err)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/rpc/delivery.validate", strings.NewReader(`{"delivery_id":1,"code":"K7M2QX"}`))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		req.Header.Set("X-Real-IP", fmt.Sprintf("203.0.113.%d", i+1))
		resp, _ := do(t, req)
		codes = append(codes, resp.StatusCode)
	}

	require.Equal(t, []int{
		http.StatusOK, http.StatusOK,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
	}, codes)
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/rpc/site.locale", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://ecodeli.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	resp, _ := do(t, req)
	require.Equal(t, "https://ecodeli.test", resp.Header.Get("Access-Control-Allow-Origin"))
}
