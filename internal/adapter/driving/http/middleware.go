package httphandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// recorder captures the status code written by the wrapped handler.
type recorder struct {
	http.ResponseWriter
	status int
}

func (rec *recorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// instrumentMiddleware logs every request and records it in the Prometheus
// collectors. Both use the canonical route so per-credential paths collapse to
// one label; the credential id, when present, is logged as its own attribute.
// Scrapes of /metrics are logged at debug level and not counted.
func instrumentMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		route := canonicalPath(r.URL.Path)

		if r.URL.Path == "/metrics" {
			next.ServeHTTP(rec, r)
			logger.Debug("metrics scrape", "status", rec.status)
			return
		}

		httpInFlight.Inc()
		next.ServeHTTP(rec, r)
		httpInFlight.Dec()

		elapsed := time.Since(start)
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		attrs := []any{
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", elapsed.Round(time.Microsecond),
		}
		if id := credentialIDFromPath(r.URL.Path); id != "" {
			attrs = append(attrs, "credential_id", id)
		}
		logger.Info("http request", attrs...)
	})
}

// recoveryMiddleware turns a handler panic into a 500 and counts it.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				httpPanics.WithLabelValues(canonicalPath(r.URL.Path)).Inc()
				logger.Error("panic recovered", "panic", v, "route", canonicalPath(r.URL.Path))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// credentialIDFromPath returns the raw {id} segment of a per-credential path,
// or "" for any other path.
func credentialIDFromPath(path string) string {
	id, ok := strings.CutPrefix(path, credentialsPath+"/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}
