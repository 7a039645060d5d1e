package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/boterr"
	"github.com/m3rciful/quizbot/core/config"
	"github.com/m3rciful/quizbot/core/logger"
)

const deliveryFailed = "Failed to send a response to the user"

// Gateway delivers outbound messages to the platform.
type Gateway interface {
	// Send makes exactly one delivery attempt at the API level. Any failure is a
	// boterr delivery error.
	Send(ctx context.Context, msg Message) error
}

// NewBot builds an offline telebot client: no getMe call and no poller start.
// It is used for raw API calls only.
func NewBot(cfg config.TelegramConfig) (*tele.Bot, error) {
	bot, err := tele.NewBot(tele.Settings{
		URL:     cfg.APIURL,
		Token:   cfg.Token,
		Client:  BuildHTTPClient(cfg),
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	return bot, nil
}

// BotGateway sends messages through telebot's raw API call.
type BotGateway struct {
	bot *tele.Bot
}

var _ Gateway = (*BotGateway)(nil)

// NewBotGateway wraps bot.
func NewBotGateway(bot *tele.Bot) *BotGateway {
	return &BotGateway{bot: bot}
}

// Send posts msg to sendMessage once. ctx is checked before the call only:
// telebot's Raw takes no context, so a request already in flight runs until
// the HTTP client timeout (telegram.timeout_seconds) even if ctx is canceled.
func (g *BotGateway) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return boterr.Delivery(deliveryFailed, err)
	}

	start := time.Now()
	_, err := g.bot.Raw("sendMessage", newSendMessageRequest(msg))
	if err != nil {
		logger.Error(ctx, logger.CompTelegram, "send.fail",
			slog.String("status", "fail"),
			slog.String("method", "sendMessage"),
			slog.String("err", RedactError(err)),
			slog.String("error_kind", ClassifyError(err)),
			slog.Duration("duration", logger.Took(start)),
		)
		return boterr.Delivery(deliveryFailed, err)
	}

	logger.Debug(ctx, logger.CompTelegram, "send.success",
		slog.String("status", "ok"),
		slog.String("method", "sendMessage"),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}
