package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/telegram/commands"
)

// WebhookStatus is the subset of getWebhookInfo the CLI prints.
type WebhookStatus struct {
	URL              string    `json:"url"`
	PendingUpdates   int       `json:"pending_update_count"`
	MaxConnections   int       `json:"max_connections,omitempty"`
	LastErrorMessage string    `json:"last_error_message,omitempty"`
	LastErrorDate    time.Time `json:"last_error_date,omitzero"`
}

// Admin wraps the bot-management calls used by the CLI.
type Admin struct {
	bot *tele.Bot
}

// NewAdmin wraps bot.
func NewAdmin(bot *tele.Bot) *Admin {
	return &Admin{bot: bot}
}

// Webhook returns the current webhook registration.
func (a *Admin) Webhook(ctx context.Context) (WebhookStatus, error) {
	wh, err := a.bot.Webhook()
	if err != nil {
		a.logFailure(ctx, "webhook.get", err)
		return WebhookStatus{}, fmt.Errorf("get webhook info: %s", RedactError(err))
	}
	status := WebhookStatus{
		URL:              wh.Listen,
		PendingUpdates:   wh.PendingUpdates,
		MaxConnections:   wh.MaxConnections,
		LastErrorMessage: wh.ErrorMessage,
	}
	if wh.ErrorUnixtime > 0 {
		status.LastErrorDate = time.Unix(wh.ErrorUnixtime, 0).UTC()
	}
	return status, nil
}

// SetWebhook registers publicURL and drops updates queued while no webhook was set.
func (a *Admin) SetWebhook(ctx context.Context, publicURL string) error {
	publicURL = strings.TrimSpace(publicURL)
	if publicURL == "" {
		return errors.New("webhook url is required")
	}
	err := a.bot.SetWebhook(&tele.Webhook{
		Endpoint:    &tele.WebhookEndpoint{PublicURL: publicURL},
		DropUpdates: true,
	})
	if err != nil {
		a.logFailure(ctx, "webhook.set", err)
		return fmt.Errorf("set webhook: %s", RedactError(err))
	}
	logger.Info(ctx, logger.CompTelegram, "webhook.set", slog.String("status", "ok"))
	return nil
}

// DeleteWebhook removes the registration; pending updates are kept.
func (a *Admin) DeleteWebhook(ctx context.Context) error {
	if err := a.bot.RemoveWebhook(); err != nil {
		a.logFailure(ctx, "webhook.delete", err)
		return fmt.Errorf("delete webhook: %s", RedactError(err))
	}
	logger.Info(ctx, logger.CompTelegram, "webhook.delete", slog.String("status", "ok"))
	return nil
}

// PublishCommands replaces the bot's command menu with the visible entries of cmds.
func (a *Admin) PublishCommands(ctx context.Context, cmds []commands.Command) error {
	menu := commands.Menu(cmds)
	if err := a.bot.SetCommands(menu); err != nil {
		a.logFailure(ctx, "commands.set", err)
		return fmt.Errorf("set commands: %s", RedactError(err))
	}
	logger.Info(ctx, logger.CompTelegram, "commands.set",
		slog.String("status", "ok"),
		slog.Int("count", len(menu)),
	)
	return nil
}

func (a *Admin) logFailure(ctx context.Context, event string, err error) {
	logger.Error(ctx, logger.CompTelegram, event,
		slog.String("status", "fail"),
		slog.String("err", RedactError(err)),
		slog.String("error_kind", ClassifyError(err)),
	)
}
