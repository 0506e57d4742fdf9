package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-door-intercom/internal/domain"
	"telegram-door-intercom/internal/infra/logging"
	"telegram-door-intercom/internal/infra/metrics"
)

// maxBodyRunes keeps error replies under Telegram's 4096 character limit.
const maxBodyRunes = 3000

type cbHandler func(ctx context.Context, chatID int64, messageID int, data string) error

// cbRoutes maps exact callback payloads to handlers.
func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	routes := make(map[string]cbHandler, len(domain.Intents))
	for _, in := range domain.Intents {
		routes[in.String()] = r.dialCBRoute
	}
	return routes
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop the client spinner before the provider call, which may be slow.
	if _, err := r.bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logging.With(ctx, r.log).Debug().Err(err).Msg("answer callback failed")
	}

	fn, ok := r.cbRoutes()[query.Data]
	metrics.IncTelegramCallback(query.Data, ok)
	if !ok {
		return nil
	}

	chatID, messageID := query.From.ID, 0
	if query.Message != nil && query.Message.Chat != nil {
		chatID, messageID = query.Message.Chat.ID, query.Message.MessageID
	}
	return fn(ctx, chatID, messageID, query.Data)
}

func (r *RealTelegramBotAdapter) dialCBRoute(ctx context.Context, chatID int64, messageID int, data string) error {
	res, err := r.intercom.Dial(ctx, data)
	switch {
	case errors.Is(err, domain.ErrUnknownIntent):
		return nil
	case err != nil:
		logging.With(ctx, r.log).Error().Err(err).Str("data", data).Msg("dial failed")
		return r.reply(ctx, chatID, messageID, r.translator.T("call_unreachable"))
	case res.Accepted():
		return r.reply(ctx, chatID, messageID, r.translator.T("call_started", res.Destination))
	default:
		return r.reply(ctx, chatID, messageID, r.translator.T("call_failed", res.StatusCode, truncate(res.Body, maxBodyRunes)))
	}
}

// reply edits the message the button belongs to, or sends a new one when
// there is none to edit.
func (r *RealTelegramBotAdapter) reply(ctx context.Context, chatID int64, messageID int, text string) error {
	if messageID == 0 {
		return r.SendMessage(ctx, chatID, text)
	}
	return r.EditMessage(ctx, chatID, messageID, text)
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "…"
}
