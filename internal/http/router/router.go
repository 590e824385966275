package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ecodeli/internal/http/handlers"
	mw "ecodeli/internal/http/middleware"
	"ecodeli/internal/locale"
	"ecodeli/internal/logx"
)

const defaultTimeout = 5 * time.Second

// ValidateProcedure is the procedure guarded by the attempt limiter.
const ValidateProcedure = "delivery.validate"

// Deps groups everything the HTTP surface is built from.
type Deps struct {
	Logger   logx.Logger
	Base     *handlers.Handlers
	Auth     *handlers.AuthHandler
	Merchant *handlers.MerchantHandler
	Docs     *handlers.DocsHandler
	Site     *handlers.SiteHandler

	// Procedures serves POST /api/rpc/{name}.
	Procedures http.Handler
	// ValidateLimit wraps calls to ValidateProcedure. Nil disables limiting.
	ValidateLimit func(http.Handler) http.Handler
	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	Tokens         mw.TokenParser
	Locales        locale.Set
	AllowedOrigins []string
	Timeout        time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	if d.Timeout <= 0 {
		d.Timeout = defaultTimeout
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Observability(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(d.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(mw.Authenticate(d.Tokens, d.Logger))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Get("/", d.Site.Root)
	r.Route("/api", func(ar chi.Router) {
		ar.Use(mw.Negotiate(d.Locales))
		apiRoutes(d)(ar)
	})
	r.Route("/{locale}", func(lr chi.Router) {
		lr.Use(mw.PathLocale(d.Locales))
		lr.Get("/", d.Site.Site)
		lr.Route("/api", apiRoutes(d))
	})

	r.NotFound(d.Base.NotFound)
	r.MethodNotAllowed(d.Base.MethodNotAllowed)

	return r
}

func apiRoutes(d Deps) func(chi.Router) {
	procs := d.Procedures
	if d.ValidateLimit != nil {
		procs = limitProcedure(ValidateProcedure, d.ValidateLimit, d.Procedures)
	}
	return func(r chi.Router) {
		r.Get("/docs", d.Docs.Docs)
		r.Get("/merchant", d.Merchant.Overview)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
			r.Post("/refresh", d.Auth.Refresh)
			r.Get("/session", d.Auth.Session)
		})

		r.Method(http.MethodPost, "/rpc/{name}", procs)
	}
}

// limitProcedure applies limit only to calls of the named procedure.
func limitProcedure(name string, limit func(http.Handler) http.Handler, next http.Handler) http.Handler {
	limited := limit(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "name") == name {
			limited.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
