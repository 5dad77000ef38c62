package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/opensante/psmap/internal/metrics"
)

// requestIDHeader carries the request identifier back to the caller,
// and accepts one from upstream proxies.
const requestIDHeader = "X-Request-ID"

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// observe logs every request with its id and duration and feeds the
// metrics collector. The route template, not the raw path, labels the
// metrics so query-heavy URLs do not explode the cardinality.
func observe(logger *slog.Logger, collector *metrics.Collector) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			collector.ObserveRequest(route, r.Method, strconv.Itoa(rec.status), elapsed)
			logger.Info("request handled",
				"request_id", requestID,
				"method", r.Method,
				"route", route,
				"status", rec.status,
				"elapsed", elapsed,
			)
		})
	}
}
