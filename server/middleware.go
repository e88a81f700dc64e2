package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type requestKey struct{}

type requestInfo struct {
	id  string
	log *zap.Logger
}

func requestFromContext(ctx context.Context, log *zap.Logger) requestInfo {
	if rc, ok := ctx.Value(requestKey{}).(requestInfo); ok {
		return rc
	}
	return requestInfo{id: "unknown", log: log}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// withRequestLog assigns request id, logs served requests at debug level and
// turns handler panics into 500 responses.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := requestInfo{id: uuid.NewString()}
		rc.log = s.log.With(zap.String("request", rc.id))

		w.Header().Set("X-Request-Id", rc.id)
		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()

		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				rc.log.Error("Request handler panicked", zap.Any("panic", p), zap.Stack("stack"))
				if rec.status == 0 {
					http.Error(rec, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			rc.log.Debug("Request served",
				zap.String("method", r.Method),
				zap.String("url", r.URL.String()),
				zap.Int("status", rec.status),
				zap.Duration("elapsed", time.Since(start)))
		}()

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestKey{}, rc)))
	})
}
