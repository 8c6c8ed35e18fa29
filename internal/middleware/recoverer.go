package middleware

import (
	"fmt"
	"net/http"

	"dayTracker/internal/logger"

	"go.uber.org/zap"
)

// Recoverer turns a panic in a handler into a 500 envelope. Aborted
// handlers keep panicking so the server drops the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error("HTTP: Panic recovered", fmt.Errorf("%v", rec),
				zap.String("request_id", GetRequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Stack("stack"))

			writeError(w, r, http.StatusInternalServerError,
				"An unexpected error occurred. Please try again later.", nil)
		}()

		next.ServeHTTP(w, r)
	})
}
