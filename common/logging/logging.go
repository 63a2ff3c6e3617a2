// Package logging provides the request-logging middleware the HTTP
// frontend wraps every route with, adapted from the same
// method/duration/error logrus fields a gRPC interceptor would use.
package logging

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

var LogToStderr = true

func loggerFromRequest(r *http.Request) *logrus.Entry {
	return log.WithFields(logrus.Fields{"peer_addr": r.RemoteAddr})
}

// statusRecorder captures the status code a handler wrote so it can be
// logged after the fact; net/http's ResponseWriter doesn't expose it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware wraps next with the same method/duration/error logging
// shape the original gRPC interceptor used, translated to net/http.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLog := loggerFromRequest(r)
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if LogToStderr {
			entry := reqLog.WithFields(logrus.Fields{
				"method":   r.URL.Path,
				"duration": time.Since(start),
				"status":   rec.status,
			})
			if rec.status >= 400 {
				entry.Error("call failed")
			} else {
				entry.Info("method called")
			}
		}
	})
}
