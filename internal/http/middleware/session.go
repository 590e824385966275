package middleware

import (
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"ecodeli/internal/logx"
	"ecodeli/internal/session"
)

// TokenParser turns an access token into a session.
type TokenParser interface {
	Parse(token string) (*session.Session, error)
}

// Authenticate attaches the session carried by a Bearer token to the request context.
// Requests without a usable token continue sessionless and are gated per procedure.
func Authenticate(parser TokenParser, logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			s, err := parser.Parse(token)
			if err != nil {
				logger.Debug("session rejected",
					logx.String("request_id", chimw.GetReqID(r.Context())),
					logx.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

func bearer(h string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
