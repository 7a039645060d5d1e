package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/m3rciful/quizbot/core/logger"
)

// DefaultShutdownTimeout bounds how long in-flight updates may finish after a stop signal.
const DefaultShutdownTimeout = 5 * time.Second

// Options describe the HTTP listener serving webhook updates.
type Options struct {
	Addr            string
	Handler         http.Handler
	ShutdownTimeout time.Duration

	// Ready fires once the listener is bound, with the resolved address.
	Ready func(addr net.Addr)
	// OnStop runs after the server drained; its error is returned by Serve.
	OnStop func(ctx context.Context) error
}

// Serve binds the listener and serves until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, opts Options) error {
	if opts.Handler == nil {
		return fmt.Errorf("cmd: Handler is required")
	}
	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	startedAt := time.Now()
	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("cmd: listen %s: %w", opts.Addr, err)
	}

	srv := &http.Server{
		Handler:           opts.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info(ctx, logger.CompApp, "ready",
		slog.String("addr", ln.Addr().String()),
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
	)
	if opts.Ready != nil {
		opts.Ready(ln.Addr())
	}

	var serveErr error
	select {
	case serveErr = <-errCh:
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
	case <-ctx.Done():
		logger.Info(context.Background(), logger.CompApp, "shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			serveErr = fmt.Errorf("cmd: shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) && serveErr == nil {
			serveErr = err
		}
	}

	if opts.OnStop != nil {
		if err := opts.OnStop(context.Background()); err != nil {
			serveErr = errors.Join(serveErr, err)
		}
	}
	attrs := []slog.Attr{slog.String("status", logger.Status(serveErr))}
	if serveErr != nil {
		attrs = append(attrs, slog.String("err", serveErr.Error()))
	}
	logger.Info(context.Background(), logger.CompApp, "stopped", attrs...)
	return serveErr
}

// ConfigPath resolves the config file: an explicit flag wins over the env var.
// An empty result means environment-only configuration.
func ConfigPath(flagValue, envVar string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if envVar == "" {
		envVar = "CONFIG_PATH"
	}
	return strings.TrimSpace(os.Getenv(envVar))
}
