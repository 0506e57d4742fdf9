package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-door-intercom/internal/domain"
	"telegram-door-intercom/internal/domain/ports/adapter"
	"telegram-door-intercom/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,
		"help":  r.handleHelpCommand,
	}
}

// handleCommand ignores commands it does not know.
func (r *RealTelegramBotAdapter) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	fn, ok := r.commandRoutes()[message.Command()]
	if !ok {
		return nil
	}
	metrics.IncTelegramCommand("/" + message.Command())
	return fn(ctx, message)
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.sendIntercomMenu(ctx, message.Chat.ID)
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.translator.T("help"))
}

// sendIntercomMenu shows one button per intent, one per row.
func (r *RealTelegramBotAdapter) sendIntercomMenu(ctx context.Context, chatID int64) error {
	rows := make([][]adapter.InlineButton, 0, len(domain.Intents))
	for _, in := range domain.Intents {
		rows = append(rows, []adapter.InlineButton{{Text: r.translator.T("btn_" + in.String()), Data: in.String()}})
	}
	return r.SendButtons(ctx, chatID, r.translator.T("menu_prompt"), rows)
}
