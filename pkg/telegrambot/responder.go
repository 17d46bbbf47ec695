package telegrambot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	telebot "gopkg.in/telebot.v3"

	"wp-tg-publisher/internal/conversation"
)

// telebotResponder adapts a telebot context to the conversation
// Responder interface
type telebotResponder struct {
	c      telebot.Context
	logger *logrus.Logger
}

func newResponder(c telebot.Context, logger *logrus.Logger) *telebotResponder {
	return &telebotResponder{c: c, logger: logger}
}

// Send sends a plain text message to the chat
func (r *telebotResponder) Send(text string) error {
	return r.c.Send(text)
}

// SendButtons sends a message with an inline keyboard
func (r *telebotResponder) SendButtons(text string, rows [][]conversation.Button) error {
	keyboard := make([][]telebot.InlineButton, 0, len(rows))
	for _, row := range rows {
		line := make([]telebot.InlineButton, 0, len(row))
		for _, b := range row {
			line = append(line, telebot.InlineButton{Text: b.Text, Data: b.Data})
		}
		keyboard = append(keyboard, line)
	}
	return r.c.Send(text, &telebot.ReplyMarkup{InlineKeyboard: keyboard})
}

// Ack answers the pending callback query with a short notice
func (r *telebotResponder) Ack(text string) error {
	if r.c.Callback() == nil {
		return nil
	}
	return r.c.Respond(&telebot.CallbackResponse{Text: text})
}

// EditMessage replaces the text of the message carrying the pressed
// button, dropping its keyboard
func (r *telebotResponder) EditMessage(text string) error {
	if r.c.Callback() == nil || r.c.Callback().Message == nil {
		return nil
	}
	return r.c.Edit(text)
}

// updateFrom converts a telebot context into a transport-neutral update
func updateFrom(c telebot.Context) conversation.Update {
	upd := conversation.Update{
		ChatID:   c.Chat().ID,
		SenderID: c.Sender().ID,
		Kind:     conversation.KindText,
		Text:     c.Text(),
	}

	if cb := c.Callback(); cb != nil {
		upd.Kind = conversation.KindCallback
		upd.Callback = &conversation.Callback{Data: callbackData(c)}
		if cb.Message != nil {
			upd.Callback.MessageText = cb.Message.Text
		}
		return upd
	}

	if msg := c.Message(); msg != nil && msg.Photo != nil {
		upd.Kind = conversation.KindPhoto
		upd.Text = msg.Caption
		upd.Photo = &conversation.Photo{
			FileID:   msg.Photo.FileID,
			FileSize: msg.Photo.FileSize,
			Width:    msg.Photo.Width,
			Height:   msg.Photo.Height,
		}
	}

	return upd
}

// callbackData returns the button payload without the unique-prefix
// marker telebot keeps in raw callbacks
func callbackData(c telebot.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	return strings.TrimPrefix(cb.Data, "\f")
}

// parseIDSuffix extracts the numeric ID that follows a callback prefix
func parseIDSuffix(data, prefix string) (int, error) {
	raw := strings.TrimPrefix(data, prefix)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id in callback %q", data)
	}
	return id, nil
}

// parseInt64Suffix extracts the numeric user ID that follows a prefix
func parseInt64Suffix(data, prefix string) (int64, error) {
	raw := strings.TrimPrefix(data, prefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id in callback %q", data)
	}
	return id, nil
}
