package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ctxKey is the type for context keys used in this package.
type ctxKey int

const (
	requestIDKey ctxKey = iota
	identityKey
)

// requestIDFromContext returns the request id attached by the middleware,
// or "" outside a request.
func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID tags every request with a uuid, echoed in the X-Request-ID
// response header. An inbound X-Request-ID is honored so a gateway's id
// survives into our logs.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// statusRecorder captures the response status for the request log and
// stamps the X-Process-Time header. The header must go out with the
// status line: once WriteHeader reaches the underlying ResponseWriter
// the header map is flushed to the wire and later mutations are lost.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	start       time.Time
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.wroteHeader {
		rec.wroteHeader = true
		rec.status = code
		rec.Header().Set("X-Process-Time", fmt.Sprintf("%.4f", time.Since(rec.start).Seconds()))
	}
	rec.ResponseWriter.WriteHeader(code)
}

// Write mirrors net/http's implicit WriteHeader(200) on first write, so
// the header is stamped even when a handler never calls WriteHeader.
func (rec *statusRecorder) Write(b []byte) (int, error) {
	if !rec.wroteHeader {
		rec.WriteHeader(http.StatusOK)
	}
	return rec.ResponseWriter.Write(b)
}

// logRequests writes one structured line per request and times it; the
// recorder reports the elapsed time in the X-Process-Time header
// (seconds, as the original API reported it).
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK, start: start}

		defer func() {
			duration := time.Since(start)
			if !rec.wroteHeader {
				// Handler wrote nothing; headers have not been flushed.
				rec.Header().Set("X-Process-Time", fmt.Sprintf("%.4f", duration.Seconds()))
			}
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", duration.Milliseconds(),
				"request_id", requestIDFromContext(r.Context()),
				"app_source", r.Header.Get("X-App-Source"),
			)
		}()

		next.ServeHTTP(rec, r)
	})
}

// corsMiddleware answers preflight requests and sets the CORS response
// headers for the configured origins.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAny := false
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAny = true
			continue
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAny || allowed[origin]) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept-Language, X-Request-ID, X-App-Source")
				h.Set("Access-Control-Max-Age", strconv.Itoa(int((10 * time.Minute).Seconds())))
				h.Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
