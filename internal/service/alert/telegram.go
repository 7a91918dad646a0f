package alert

import (
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"safetywatch/internal/config"
	"safetywatch/internal/logger"
	"safetywatch/internal/model"
)

// Notifier delivers a violation event to a chat channel.
type Notifier interface {
	Send(event *model.ViolationEvent) error
}

// TelegramNotifier sends violation alerts to a Telegram chat, with the
// screenshot attached when one exists.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *logger.Logger
}

// NewTelegramNotifier authorizes the bot with the configured token.
func NewTelegramNotifier(cfg *config.Config, logger *logger.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    bot,
		chatID: cfg.TelegramChatID,
		logger: logger,
	}, nil
}

// TestConnection sends a startup message so a dead token fails early.
func (n *TelegramNotifier) TestConnection() error {
	msg := tgbotapi.NewMessage(n.chatID, "🤖 Worker safety monitoring is now active!")
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram connection test failed: %w", err)
	}
	return nil
}

// Send delivers the alert. When the event carries a readable screenshot the
// caption rides along as a photo message, otherwise a plain text message is
// sent.
func (n *TelegramNotifier) Send(event *model.ViolationEvent) error {
	caption := BuildCaption(event)

	if event.ScreenshotPath != "" {
		if _, err := os.Stat(event.ScreenshotPath); err == nil {
			photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FilePath(event.ScreenshotPath))
			photo.Caption = caption
			photo.ParseMode = tgbotapi.ModeMarkdown
			if _, err := n.bot.Send(photo); err != nil {
				return fmt.Errorf("failed to send telegram photo: %w", err)
			}
			return nil
		}
		n.logger.Warning("Screenshot not found, sending alert without it: %s", event.ScreenshotPath)
	}

	msg := tgbotapi.NewMessage(n.chatID, caption)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
