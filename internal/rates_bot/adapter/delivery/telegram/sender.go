package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// Sender delivers formatted notifications over the Telegram Bot API.
// It makes a single send attempt per message; retrying here would risk
// duplicate notifications.
type Sender struct {
	api *tgbotapi.BotAPI
}

func NewSender(token string) (*Sender, error) {
	const op = "telegram.NewSender"

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	return &Sender{api: api}, nil
}

func (s *Sender) Send(_ context.Context, recipientID, text string) error {
	const op = "telegram.Send"

	chatID, err := strconv.ParseInt(recipientID, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "%s: bad recipient id %q", op, recipientID)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := s.api.Send(msg); err != nil {
		return errors.Wrap(err, op)
	}

	return nil
}
