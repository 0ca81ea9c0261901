package infrastructure

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
)

// telegramSender is the part of tgbotapi.BotAPI used for forwarding.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier forwards dashboard notifications to one Telegram chat.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
}

var _ interfaces.NotificationForwarder = (*TelegramNotifier)(nil)

// NewTelegramNotifier validates token by calling getMe.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram token: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (t *TelegramNotifier) Forward(_ context.Context, n entities.Notification) error {
	msg := tgbotapi.NewMessage(t.chatID, formatNotification(n))
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func formatNotification(n entities.Notification) string {
	var b strings.Builder
	if n.Type != nil && *n.Type != "" {
		b.WriteString("[" + strings.ToUpper(*n.Type) + "] ")
	}
	if n.Title != nil {
		b.WriteString(*n.Title)
	}
	if n.Message != nil && *n.Message != "" {
		b.WriteString("\n" + *n.Message)
	}
	if n.Link != nil && *n.Link != "" {
		b.WriteString("\n" + *n.Link)
	}
	return b.String()
}
