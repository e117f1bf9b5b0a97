package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lessonbook/internal/models"
)

// TelegramAlerter pushes booking alerts to an admin chat. It is an optional
// second channel next to email; requester-facing mail stays on email only.
type TelegramAlerter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramAlerter creates an alerter for the given bot token and chat.
func NewTelegramAlerter(token string, chatID int64) (*TelegramAlerter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramAlerter{bot: bot, chatID: chatID}, nil
}

// AdminBookingRequest sends a short alert about a new pending booking.
func (t *TelegramAlerter) AdminBookingRequest(_ context.Context, b *models.Booking) error {
	text := fmt.Sprintf("New booking request\n%s — %s\n%s %s\nCheck your email to approve or deny.",
		b.Name, b.LessonType, b.BookingDate, b.BookingTime)
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// RequesterDecision is a no-op: requesters are reached by email only.
func (t *TelegramAlerter) RequesterDecision(context.Context, *models.Booking, Outcome) error {
	return nil
}
