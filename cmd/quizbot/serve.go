package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/m3rciful/quizbot/core/bootstrap"
	"github.com/m3rciful/quizbot/core/cmd"
	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/webhook"
)

var (
	serveMigrate         bool
	serveRegisterWebhook bool
	serveShutdown        time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Telegram webhook updates over HTTP",
	RunE: func(c *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		res, err := bootstrap.Run(ctx, bootstrap.Options{
			Config:     cfg,
			Migrate:    serveMigrate,
			Registerer: reg,
		})
		if err != nil {
			return err
		}

		if serveRegisterWebhook && res.Dispatcher != nil {
			if err := registerWebhook(ctx); err != nil {
				_ = res.Close()
				return err
			}
		}

		return cmd.Serve(ctx, cmd.Options{
			Addr:            cfg.ListenAddr(),
			Handler:         webhook.NewRouter(cfg.Server.Path, res.Handler, reg),
			ShutdownTimeout: serveShutdown,
			OnStop: func(context.Context) error {
				return res.Close()
			},
		})
	},
}

func registerWebhook(ctx context.Context) error {
	if cfg.Telegram.WebhookURL == "" {
		logger.Warn(ctx, logger.CompApp, "webhook.register",
			slog.String("status", "skip"),
			slog.String("reason", "webhook_url is empty"),
		)
		return nil
	}
	bot, err := telegram.NewBot(cfg.Telegram)
	if err != nil {
		return err
	}
	return telegram.NewAdmin(bot).SetWebhook(ctx, cfg.Telegram.WebhookURL)
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "apply SQL migrations before serving (sql backends only)")
	serveCmd.Flags().BoolVar(&serveRegisterWebhook, "register-webhook", false, "point the bot's webhook at telegram.webhook_url on start")
	serveCmd.Flags().DurationVar(&serveShutdown, "shutdown-timeout", cmd.DefaultShutdownTimeout, "grace period for in-flight updates")
	rootCmd.AddCommand(serveCmd)
}
