package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for pushing messages to guardians who linked a
// Telegram chat. This helps in decoupling the dispatch logic from the specific
// bot library.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
