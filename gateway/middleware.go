package gateway

import (
	"context"
	"github.com/google/uuid"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	HeaderRequestID = "X-Request-ID"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

// Middleware wraps an [http.Handler] to run logic before or after it.
// This is the same shape that chi routers accept with Use.
type Middleware = func(next http.Handler) http.Handler

type statusWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.statusCode = statusCode
}

func (w *statusWriter) Write(data []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(data)
	w.bytes += n
	return n, err
}

// RequestID makes sure every request has an ID in its [HeaderRequestID] header, generating one if the client didn't send it.
// The ID is echoed in the response, and is available to handlers with [RequestIDFrom].
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
		if len(id) == 0 {
			id = uuid.NewString()
			r.Header.Set(HeaderRequestID, id)
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom returns the request ID set by [RequestID], or an empty string.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// Logging logs each request with its status code, method, path, size, and duration.
// Server errors are logged at error level, client errors at warn, and everything else at debug.
func Logging(log *slog.Logger) Middleware {
	if log == nil {
		panic("nil logger")
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			panic("nil handler")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()
			defer func() {
				code := sw.statusCode
				if code == 0 {
					code = http.StatusOK
				}
				level := slog.LevelDebug
				switch {
				case code >= 500:
					level = slog.LevelError
				case code >= 400:
					level = slog.LevelWarn
				}
				log.Log(r.Context(), level, "HTTP request",
					"status", code,
					"method", r.Method,
					"path", r.URL.Path,
					"bytes", sw.bytes,
					"duration", time.Since(start),
					"request_id", RequestIDFrom(r.Context()),
				)
			}()
			next.ServeHTTP(sw, r)
		})
	}
}

// Recovery recovers a panic in a handler, logs it, and responds with a 500 status.
func Recovery(log *slog.Logger) Middleware {
	if log == nil {
		panic("nil logger")
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			panic("nil handler")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.ErrorContext(r.Context(), "Recovered from panic in HTTP handler",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", RequestIDFrom(r.Context()),
					)
					writeError(w, r, http.StatusInternalServerError, ErrServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
