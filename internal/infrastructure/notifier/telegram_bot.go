package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"stealdeals/internal/domain/entity"
	"stealdeals/pkg/contextx"
	"stealdeals/pkg/logx"
)

const queueSize = 64

var (
	logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

	announcementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "stealdeals",
		Name:      "trending_announcements_total",
		Help:      "Trending deal announcements by outcome.",
	}, []string{"outcome"})
)

type sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot announces newly trending deals to a chat. Announce only
// queues the deal; Run does the sending.
type TelegramBot struct {
	bot    sender
	chatID int64
	deals  chan entity.Deal
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return newTelegramBot(bot, chatID), nil
}

func newTelegramBot(bot sender, chatID int64) *TelegramBot {
	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
		deals:  make(chan entity.Deal, queueSize),
	}
}

func (b *TelegramBot) Announce(ctx context.Context, deal entity.Deal) {
	select {
	case b.deals <- deal:
	default:
		announcementsTotal.WithLabelValues("dropped").Inc()
		logger(ctx).Warn("announcement queue is full", slog.String(logx.FieldDealID, deal.ID.String()))
	}
}

func (b *TelegramBot) Run(ctx context.Context) error {
	logger(ctx).Info("telegram announcer started")

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("telegram announcer stopped")
			return nil
		case deal := <-b.deals:
			if err := b.SendDeal(ctx, deal); err != nil {
				announcementsTotal.WithLabelValues("failed").Inc()
				logger(ctx).Error("failed to announce deal", logx.Error(err), slog.String(logx.FieldDealID, deal.ID.String()))

				continue
			}

			announcementsTotal.WithLabelValues("sent").Inc()
		}
	}
}

func (b *TelegramBot) SendDeal(ctx context.Context, deal entity.Deal) error {
	msg := tu.Message(tu.ID(b.chatID), formatDeal(deal)).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

func formatDeal(deal entity.Deal) string {
	return fmt.Sprintf(
		"🔥 <b>Trending deal</b>\n\n"+
			"<b>%s</b>\n"+
			"Category: %s\n"+
			"Price: <s>%.2f</s> %.2f\n"+
			"Discount: %d%% OFF\n\n"+
			"<a href=\"%s\">Buy now</a>",
		html.EscapeString(deal.Title),
		html.EscapeString(deal.Category.String()),
		deal.OriginalPrice,
		deal.DiscountedPrice,
		deal.DiscountPercent(),
		html.EscapeString(deal.AffiliateURL),
	)
}
