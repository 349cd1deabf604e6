// Package middleware provides HTTP middleware for the admin API: panic
// recovery, API key authentication, and request logging.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/wecomkit/rulesync/internal/utils"
)

// Recovery is a middleware that recovers from panics and returns a 500 Internal Server Error
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					// Capture the stack trace
					stack := debug.Stack()

					log.Error().
						Str("request_id", chimiddleware.GetReqID(r.Context())).
						Interface("panic", err).
						Str("stack", string(stack)).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Str("remote_addr", r.RemoteAddr).
						Msg("Panic recovered in request handler")

					// Return a 500 Internal Server Error
					utils.Error(
						w,
						http.StatusInternalServerError,
						"internal_error",
						"An unexpected error occurred while processing your request",
						nil,
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs each completed request with its status and latency
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			utils.LogHTTPRequest(
				chimiddleware.GetReqID(r.Context()),
				r.Method,
				r.URL.Path,
				r.RemoteAddr,
				ww.Status(),
				time.Since(startTime),
			)
		})
	}
}
