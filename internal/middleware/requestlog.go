package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	slogctx "github.com/veqryn/slog-context"
)

// RequestContext adds the chi request id to the request context so that
// every log line written with that context carries it. It must run after
// chimw.RequestID.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			r = r.WithContext(slogctx.Append(r.Context(), "request_id", id))
		}
		next.ServeHTTP(w, r)
	})
}
