package telegram

import (
	"gopkg.in/telebot.v3"
)

// TelebotAdapter delivers guardian push messages through a Telegram bot using
// gopkg.in/telebot.v3.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends text to the chat a guardian linked with the bot.
func (a *TelebotAdapter) SendMessage(chatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}
	_, err := a.bot.Send(&telebot.User{ID: chatID}, text, options)
	return err
}
