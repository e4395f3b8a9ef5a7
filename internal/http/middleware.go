package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Pu11en/peptide-website/internal/notify"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// RecoverMiddleware turns handler panics into a generic 500 and reports
// them to the error webhook when one is configured. The reporter call is
// fire-and-forget so a slow webhook never delays the response.
func RecoverMiddleware(reporter *notify.ErrorReporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("panic serving %s (request %s): %v", r.URL.Path, getRequestID(r.Context()), rec)
					reporter.Report(r.URL.Path, fmt.Sprint(rec))
					respondError(w, http.StatusInternalServerError, "Server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
