package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"ecodeli/internal/locale"
	"ecodeli/internal/logx"
	"ecodeli/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
)

const bodyLimit = 1 << 20

// Router dispatches procedure calls by name.
type Router struct {
	procs    map[string]Endpoint
	validate *validator.Validate
	log      logx.Logger
	results  *prometheus.CounterVec
}

// NewRouter constructs an empty Router. results may be nil.
func NewRouter(log logx.Logger, results *prometheus.CounterVec) *Router {
	if log == nil {
		log = logx.Nop()
	}
	return &Router{
		procs:    make(map[string]Endpoint),
		validate: NewValidator(),
		log:      log,
		results:  results,
	}
}

// Register adds endpoints. It panics on an empty or duplicate name.
func (r *Router) Register(eps ...Endpoint) {
	for _, ep := range eps {
		name := ep.Info().Name
		if name == "" {
			panic("rpc: procedure without a name")
		}
		if _, dup := r.procs[name]; dup {
			panic(fmt.Sprintf("rpc: procedure %q registered twice", name))
		}
		r.procs[name] = ep
	}
}

// Catalog lists registered procedures sorted by name.
func (r *Router) Catalog() []Info {
	out := make([]Info, 0, len(r.procs))
	for _, ep := range r.procs {
		out = append(out, ep.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call runs the named procedure and returns its envelope and HTTP status.
func (r *Router) Call(ctx context.Context, name string, c Caller, body io.Reader) (int, Result) {
	ep, ok := r.procs[name]
	if !ok {
		r.count("unknown", CodeNotFound)
		return http.StatusNotFound, Result{Error: fmt.Sprintf("unknown procedure %q", name), Code: CodeNotFound}
	}

	out, err := ep.invoke(ctx, r.validate, c, body)
	if err != nil {
		status, res := Failure(err)
		r.count(name, res.Code)
		if res.Code == CodeInternal {
			r.log.Error("procedure failed",
				logx.String("procedure", name),
				logx.String("request_id", c.RequestID),
				logx.Err(err),
			)
		} else {
			r.log.Debug("procedure rejected",
				logx.String("procedure", name),
				logx.String("code", res.Code),
				logx.String("request_id", c.RequestID),
				logx.Err(err),
			)
		}
		return status, res
	}
	r.count(name, CodeOK)
	return http.StatusOK, Success(out)
}

// Handler serves POST /api/rpc/{name}.
func (r *Router) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		req.Body = http.MaxBytesReader(w, req.Body, bodyLimit)

		s, _ := session.FromContext(req.Context())
		c := Caller{
			Session:   s,
			IP:        req.RemoteAddr,
			Locale:    locale.FromContext(req.Context()),
			RequestID: middleware.GetReqID(req.Context()),
		}
		status, res := r.Call(req.Context(), chi.URLParam(req, "name"), c, req.Body)
		r.write(w, req, status, res)
	}
}

func (r *Router) write(w http.ResponseWriter, req *http.Request, status int, res Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		r.log.Warn("rpc encode failed",
			logx.String("request_id", middleware.GetReqID(req.Context())),
			logx.Err(err),
		)
	}
}

func (r *Router) count(name, code string) {
	if r.results == nil {
		return
	}
	r.results.WithLabelValues(name, code).Inc()
}
