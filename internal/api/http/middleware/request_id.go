package middleware

import (
	"net/http"

	"github.com/google/uuid"

	appctx "github.com/dtroode/tasktracker-server/internal/api/http/context"
)

const HeaderXRequestID = "X-Request-Id"

// RequestID propagates the caller's request id or assigns a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, reqID)

		next.ServeHTTP(w, r.WithContext(appctx.WithRequestID(r.Context(), reqID)))
	})
}
