// Package locale resolves the language a request is served in.
package locale

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

type ctxKey struct{}

// WithLocale stores the request locale in ctx.
func WithLocale(ctx context.Context, l string) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request locale or "" when the route was not locale-prefixed.
func FromContext(ctx context.Context) string {
	l, _ := ctx.Value(ctxKey{}).(string)
	return l
}

// Set is the list of locales a deployment serves.
type Set struct {
	supported []string
	def       string
}

// NewSet builds a Set. def must be one of supported.
func NewSet(supported []string, def string) Set {
	norm := make([]string, 0, len(supported))
	for _, s := range supported {
		norm = append(norm, strings.ToLower(strings.TrimSpace(s)))
	}
	return Set{supported: norm, def: strings.ToLower(def)}
}

// Supported reports whether l is served.
func (s Set) Supported(l string) bool {
	l = strings.ToLower(l)
	for _, v := range s.supported {
		if v == l {
			return true
		}
	}
	return false
}

// Default returns the fallback locale.
func (s Set) Default() string {
	return s.def
}

// All returns the served locales in configuration order.
func (s Set) All() []string {
	return append([]string(nil), s.supported...)
}

type weighted struct {
	tag string
	q   float64
	pos int
}

// Negotiate picks the best served locale for an Accept-Language header.
// Region subtags match on their primary language ("fr-CA" → "fr").
func (s Set) Negotiate(header string) string {
	var prefs []weighted
	for i, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tag, params, _ := strings.Cut(part, ";")
		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			q = f
		}
		if q <= 0 {
			continue
		}
		prefs = append(prefs, weighted{tag: strings.ToLower(strings.TrimSpace(tag)), q: q, pos: i})
	}
	sort.SliceStable(prefs, func(i, j int) bool { return prefs[i].q > prefs[j].q })

	for _, p := range prefs {
		if p.tag == "*" {
			return s.def
		}
		if s.Supported(p.tag) {
			return p.tag
		}
		primary, _, _ := strings.Cut(p.tag, "-")
		if s.Supported(primary) {
			return primary
		}
	}
	return s.def
}
