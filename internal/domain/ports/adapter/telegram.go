// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendButtons(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
}
