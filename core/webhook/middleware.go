package webhook

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/m3rciful/quizbot/core/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID attaches a correlation id from X-Request-Id or a fresh UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, rid)
		ctx := logger.WithRID(r.Context(), rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccessLog writes one line per request. Probe and scrape endpoints log at debug level.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		status := "ok"
		if code >= 400 {
			status = "fail"
		}
		attrs := []slog.Attr{
			slog.String("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("http_code", code),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", logger.Took(start)),
		}
		level := slog.LevelInfo
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			level = slog.LevelDebug
		}
		logger.Event(r.Context(), logger.CompHTTP, level, "request", attrs...)
	})
}

// Recover answers 500 when a handler panics and logs the stack.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.Error(r.Context(), logger.CompHTTP, "panic",
				slog.String("status", "fail"),
				slog.Any("err", rec),
				slog.String("stack", string(debug.Stack())),
			)
			writeJSON(r.Context(), w, http.StatusInternalServerError, Response{Message: "Internal server error."})
		}()
		next.ServeHTTP(w, r)
	})
}
