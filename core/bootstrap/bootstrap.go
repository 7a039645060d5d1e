package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/m3rciful/quizbot/core/config"
	"github.com/m3rciful/quizbot/core/database"
	"github.com/m3rciful/quizbot/core/dispatch"
	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/redisstore"
	"github.com/m3rciful/quizbot/core/state"
	"github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/webhook"
)

// Options control the bootstrap pipeline. Zero-valued hooks use the defaults.
type Options struct {
	Config  *config.Config
	Modules Modules

	// Migrate applies SQL migrations before the store is opened.
	Migrate bool
	// Registerer receives the webhook metrics; nil skips registration.
	Registerer prometheus.Registerer

	LoggerInit func(*config.Config) error
	OpenStore  func(ctx context.Context, cfg *config.Config, migrate bool) (state.Store, func() error, error)
	NewGateway func(cfg config.TelegramConfig) (telegram.Gateway, error)
}

// Result exposes what the pipeline built.
type Result struct {
	// Dispatcher is nil when required configuration is missing; the handler
	// then answers every update with an environment error.
	Dispatcher *dispatch.Dispatcher
	Store      state.Store
	Handler    *webhook.Handler
	Metrics    *webhook.Metrics

	closers []func() error
}

// Close releases store connections.
func (r *Result) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run initializes the logger, opens the store, builds the gateway and wires
// the dispatcher into the webhook handler.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	res := &Result{Metrics: webhook.NewMetrics(opts.Registerer)}

	if err := cfg.Require(); err != nil {
		logger.Warn(ctx, logger.CompApp, "config.incomplete",
			slog.String("status", "skip"),
			slog.String("err", err.Error()),
		)
		res.Handler = webhook.NewHandler(cfg.Require, nil, res.Metrics)
		return res, nil
	}

	openStore := opts.OpenStore
	if openStore == nil {
		openStore = OpenStore
	}
	store, closeStore, err := openStore(ctx, cfg, opts.Migrate)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: store initialization failed: %w", err)
	}
	res.Store = store
	if closeStore != nil {
		res.closers = append(res.closers, closeStore)
	}

	newGateway := opts.NewGateway
	if newGateway == nil {
		newGateway = defaultGateway
	}
	gw, err := newGateway(cfg.Telegram)
	if err != nil {
		_ = res.Close()
		return nil, fmt.Errorf("bootstrap: gateway initialization failed: %w", err)
	}

	quiz, err := opts.Modules.quiz(ctx, cfg)
	if err != nil {
		_ = res.Close()
		return nil, fmt.Errorf("bootstrap: quiz initialization failed: %w", err)
	}

	res.Dispatcher = dispatch.New(store, gw, dispatch.Options{
		Quiz:                  quiz,
		ParseMode:             telegram.ParseModeFrom(cfg.Replies.ParseMode),
		DisableWebPagePreview: cfg.Replies.DisableWebPagePreview,
		DisableNotification:   cfg.Replies.DisableNotification,
	})
	res.Handler = webhook.NewHandler(cfg.Require, res.Dispatcher, res.Metrics)

	logger.Info(ctx, logger.CompApp, "bootstrap",
		slog.String("status", "ok"),
		slog.String("backend", cfg.Store.Backend),
		slog.String("namespace", cfg.Store.Table),
	)
	return res, nil
}

func defaultGateway(cfg config.TelegramConfig) (telegram.Gateway, error) {
	bot, err := telegram.NewBot(cfg)
	if err != nil {
		return nil, err
	}
	return telegram.NewBotGateway(bot), nil
}

// OpenStore builds the configured backend. The returned close func may be nil.
func OpenStore(ctx context.Context, cfg *config.Config, migrate bool) (state.Store, func() error, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory, "":
		return state.NewMemoryStore(), nil, nil

	case config.BackendPostgres, config.BackendSQLite:
		target, err := database.TargetFor(cfg)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			if err := database.RunMigrations(ctx, target); err != nil {
				return nil, nil, err
			}
		}
		db, err := database.Connect(ctx, target)
		if err != nil {
			return nil, nil, err
		}
		return database.NewStore(db, cfg.Store.Table), db.Close, nil

	case config.BackendRedis:
		rc := cfg.Store.Redis
		s := redisstore.New(rc.Addr, rc.Password, rc.DB, cfg.Store.Table, redisstore.WithPrefix(rc.KeyPrefix))
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		logger.Info(ctx, logger.CompStore, "redis.connect",
			slog.String("status", "ok"),
			slog.String("target", rc.Addr),
		)
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
}
