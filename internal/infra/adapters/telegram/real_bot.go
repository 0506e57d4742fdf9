package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-door-intercom/internal/config"
	"telegram-door-intercom/internal/domain/ports/adapter"
	"telegram-door-intercom/internal/infra/i18n"
	"telegram-door-intercom/internal/infra/logging"
	"telegram-door-intercom/internal/infra/worker"
	"telegram-door-intercom/internal/usecase"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// BotAPI is the part of *tgbotapi.BotAPI the adapter uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// RealTelegramBotAdapter long-polls Telegram and routes /start, /help and
// intercom button presses.
type RealTelegramBotAdapter struct {
	bot        BotAPI
	intercom   usecase.IntercomUseCase
	translator *i18n.Translator
	log        *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, intercom usecase.IntercomUseCase, translator *i18n.Translator, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return newRealTelegramBotAdapter(bot, intercom, translator, logger, cfg.Workers)
}

func newRealTelegramBotAdapter(bot BotAPI, intercom usecase.IntercomUseCase, translator *i18n.Translator, logger *zerolog.Logger, updateWorkers int) (*RealTelegramBotAdapter, error) {
	if intercom == nil {
		return nil, errors.New("intercom usecase is nil")
	}
	if translator == nil {
		return nil, errors.New("translator is nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if updateWorkers <= 0 {
		updateWorkers = 4
	}
	return &RealTelegramBotAdapter{
		bot:           bot,
		intercom:      intercom,
		translator:    translator,
		log:           logger,
		updateWorkers: updateWorkers,
	}, nil
}

// StartPolling blocks until ctx is cancelled or the update channel closes.
// Each update runs on the worker pool, so a slow provider call never holds
// up other users.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel
	defer cancel()

	if err := r.SetMenuCommands(ctx); err != nil {
		r.log.Warn().Err(err).Msg("failed to set bot menu commands")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)
	defer r.bot.StopReceivingUpdates()

	pool := worker.NewPool(r.updateWorkers, r.log)
	pool.Start(ctx)
	defer pool.Stop()

	r.log.Info().Int("workers", r.updateWorkers).Msg("telegram polling started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			task := func(ctx context.Context) error {
				return r.handleUpdate(updateContext(ctx, up), up)
			}
			if err := pool.Submit(ctx, task); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.log.Error().Err(err).Int("update_id", up.UpdateID).Msg("dropping update")
			}
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// updateContext tags ctx with a fresh trace id and the chat the update
// belongs to.
func updateContext(ctx context.Context, up tgbotapi.Update) context.Context {
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	if chat := up.FromChat(); chat != nil {
		ctx = logging.WithChatID(ctx, chat.ID)
	}
	return ctx
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}
	if update.Message == nil || update.Message.Chat == nil {
		return nil
	}
	if !update.Message.IsCommand() {
		return nil
	}
	return r.handleCommand(ctx, update.Message)
}

// SetMenuCommands publishes the command list shown in the client menu.
func (r *RealTelegramBotAdapter) SetMenuCommands(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: r.translator.T("cmd_start_desc")},
		tgbotapi.BotCommand{Command: "help", Description: r.translator.T("cmd_help_desc")},
	)
	_, err := r.bot.Request(cmds)
	return err
}

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendButtons sends a message with inline buttons using tgbotapi.
// - If btn.URL is set, the button opens a link
// - Else if btn.Data is set, the button sends callback data
// - Else a safe fallback uses btn.Text as callback data
func (r *RealTelegramBotAdapter) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	// Support early cancellation
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			switch {
			case btn.URL != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL))
			case btn.Data != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(label, btn.Data))
			default:
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(label, label))
			}
		}
		kbRows = append(kbRows, kbRow)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	_, err := r.bot.Send(msg)
	return err
}

// EditMessage replaces the text of a previously sent message; its inline
// keyboard is removed.
func (r *RealTelegramBotAdapter) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	_, err := r.bot.Send(edit)
	return err
}
