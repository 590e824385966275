package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ecodeli/internal/locale"
	"ecodeli/internal/rpc"
)

// PathLocale serves routes mounted under /{locale}. Unknown locales get a 404.
func PathLocale(set locale.Set) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := strings.ToLower(chi.URLParam(r, "locale"))
			if !set.Supported(l) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				_ = json.NewEncoder(w).Encode(rpc.Result{Error: "unknown locale " + l, Code: rpc.CodeNotFound})
				return
			}
			next.ServeHTTP(w, r.WithContext(locale.WithLocale(r.Context(), l)))
		})
	}
}

// Negotiate picks a locale from Accept-Language for routes without a locale prefix.
// A locale already set by PathLocale wins.
func Negotiate(set locale.Set) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if locale.FromContext(r.Context()) != "" {
				next.ServeHTTP(w, r)
				return
			}
			l := set.Negotiate(r.Header.Get("Accept-Language"))
			next.ServeHTTP(w, r.WithContext(locale.WithLocale(r.Context(), l)))
		})
	}
}
