package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"ecodeli/internal/logx"
)

// unmatchedRoute labels requests no route matched, so scanners cannot grow the series count.
const unmatchedRoute = "unmatched"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route pattern and status.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method, route pattern and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration)
}

// Observability records request metrics and writes one access log line per request.
// Probes log at debug and server errors at error level.
func Observability(logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			took := time.Since(start)

			route, procedure := routeOf(r)
			status := ww.Status()
			code := strconv.Itoa(status)
			httpRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route, code).Observe(took.Seconds())

			fields := []logx.Field{
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
				logx.String("route", route),
				logx.Int("status", status),
				logx.Int("bytes", ww.BytesWritten()),
				logx.Duration("duration", took),
				logx.String("request_id", chimw.GetReqID(r.Context())),
			}
			if procedure != "" {
				fields = append(fields, logx.String("procedure", procedure))
			}

			log := logger.Info
			switch {
			case status >= http.StatusInternalServerError:
				log = logger.Error
			case route == "/ping" || route == "/healthcheck":
				log = logger.Debug
			}
			log("http request", fields...)
		})
	}
}

// routeOf returns the matched chi pattern and, for procedure calls, the procedure name.
func routeOf(r *http.Request) (route, procedure string) {
	rc := chi.RouteContext(r.Context())
	if rc == nil {
		return unmatchedRoute, ""
	}
	route = rc.RoutePattern()
	if route == "" || route == "/*" {
		return unmatchedRoute, ""
	}
	return route, rc.URLParam("name")
}
