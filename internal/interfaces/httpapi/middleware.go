package httpapi

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/draft-board/internal/platform/logging"
)

const (
	corsAllowMethods  = "GET,POST,PUT,DELETE,OPTIONS"
	corsAllowHeaders  = "Content-Type,Accept"
	corsExposeHeaders = "Content-Disposition"
	corsMaxAge        = "600"
)

// RequestLogging logs one line per request. Server errors log at warn.
func RequestLogging(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.written,
			"duration_ms", time.Since(started).Milliseconds(),
		}
		if draftID := r.URL.Query().Get("draft_id"); draftID != "" {
			args = append(args, "draft_id", draftID)
		}

		log := logger.InfoContext
		if rec.status >= http.StatusInternalServerError {
			log = logger.WarnContext
		}
		log(r.Context(), "http request", args...)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.written += n
	return n, err
}

// RequestTracing starts the server span. Health probes are not traced.
func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "draft-board-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}

func shouldTraceRequest(path string) bool {
	switch strings.ToLower(strings.TrimSpace(path)) {
	case "/healthz", "/health", "/livez", "/readyz":
		return false
	}
	return true
}

// CORS answers preflights and tags responses for the configured origins.
// Content-Disposition is exposed so browsers can read the backup filename.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	wildcard := false
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		switch origin = strings.TrimSpace(origin); origin {
		case "":
		case "*":
			wildcard = true
		default:
			origins[origin] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" && (wildcard || origins[origin]) {
			h := w.Header()
			if wildcard {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)
		}

		if origin != "" && r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
