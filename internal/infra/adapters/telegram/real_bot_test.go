package telegram

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-door-intercom/internal/domain"
	"telegram-door-intercom/internal/domain/ports/adapter"
	"telegram-door-intercom/internal/infra/i18n"
	"telegram-door-intercom/internal/usecase"
)

// fakeBot records everything the adapter sends.
type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sentCh   chan tgbotapi.Chattable

	updates chan tgbotapi.Update
	stopped bool
}

func newFakeBot() *fakeBot {
	return &fakeBot{updates: make(chan tgbotapi.Update, 8), sentCh: make(chan tgbotapi.Chattable, 8)}
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	f.sent = append(f.sent, c)
	f.mu.Unlock()
	f.sentCh <- c
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return f.updates }

func (f *fakeBot) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeBot) sentCopy() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.sent...)
}

type stubDialer struct {
	mu    sync.Mutex
	calls []string
	resp  *adapter.CallResponse
	err   error
}

func (s *stubDialer) RequestCallback(ctx context.Context, from, to string) (*adapter.CallResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, from+"->"+to)
	return s.resp, s.err
}

func newTestAdapter(t *testing.T, dialer *stubDialer) (*RealTelegramBotAdapter, *fakeBot) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	dir, err := domain.NewDirectory("+380635154798", "101", "102")
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	bot := newFakeBot()
	uc := usecase.NewIntercomUseCase(dir, dialer, &logger, false)
	r, err := newRealTelegramBotAdapter(bot, uc, tr, &logger, 2)
	if err != nil {
		t.Fatalf("adapter: %v", err)
	}
	return r, bot
}

func commandUpdate(chatID int64, text string) tgbotapi.Update {
	cmd := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: chatID},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func callbackUpdate(chatID int64, messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: chatID},
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func TestStartCommand_SendsTwoButtonMenu(t *testing.T) {
	r, bot := newTestAdapter(t, &stubDialer{})

	if err := r.handleUpdate(context.Background(), commandUpdate(7, "/start")); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
	sent := bot.sentCopy()
	if len(sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sent))
	}
	msg, ok := sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("expected MessageConfig, got %T", sent[0])
	}
	if msg.ChatID != 7 || msg.Text != "Choose an action:" {
		t.Fatalf("unexpected message %+v", msg)
	}
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("expected inline keyboard, got %T", msg.ReplyMarkup)
	}
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(kb.InlineKeyboard))
	}
	want := [][2]string{{"Entry", "entry"}, {"Exit", "exit"}}
	for i, row := range kb.InlineKeyboard {
		if len(row) != 1 || row[0].Text != want[i][0] || row[0].CallbackData == nil || *row[0].CallbackData != want[i][1] {
			t.Fatalf("row %d mismatch: %+v", i, row)
		}
	}
}

func TestHelpAndUnknownCommands(t *testing.T) {
	r, bot := newTestAdapter(t, &stubDialer{})

	_ = r.handleUpdate(context.Background(), commandUpdate(7, "/help"))
	_ = r.handleUpdate(context.Background(), commandUpdate(7, "/plans"))
	_ = r.handleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}, Text: "hello"}})

	sent := bot.sentCopy()
	if len(sent) != 1 {
		t.Fatalf("expected only the help reply, got %d messages", len(sent))
	}
	if msg := sent[0].(tgbotapi.MessageConfig); !strings.Contains(msg.Text, "/start") {
		t.Fatalf("unexpected help text %q", msg.Text)
	}
}

func TestEntryCallback_Success(t *testing.T) {
	dialer := &stubDialer{resp: &adapter.CallResponse{StatusCode: http.StatusOK, Body: []byte(`{"status":"success"}`)}}
	r, bot := newTestAdapter(t, dialer)

	if err := r.handleUpdate(context.Background(), callbackUpdate(7, 55, "entry")); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
	if len(dialer.calls) != 1 || dialer.calls[0] != "+380635154798->101" {
		t.Fatalf("expected one call to the entry number, got %v", dialer.calls)
	}
	if len(bot.requests) != 1 {
		t.Fatalf("expected callback to be answered once, got %d requests", len(bot.requests))
	}
	if cb, ok := bot.requests[0].(tgbotapi.CallbackConfig); !ok || cb.CallbackQueryID != "cb-1" {
		t.Fatalf("unexpected answer %+v", bot.requests[0])
	}

	sent := bot.sentCopy()
	if len(sent) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(sent))
	}
	edit, ok := sent[0].(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("expected EditMessageTextConfig, got %T", sent[0])
	}
	if edit.ChatID != 7 || edit.MessageID != 55 {
		t.Fatalf("edited wrong message: %+v", edit.BaseEdit)
	}
	if !strings.Contains(edit.Text, "101") {
		t.Fatalf("success text should contain destination: %q", edit.Text)
	}
}

func TestEntryCallback_ProviderError(t *testing.T) {
	dialer := &stubDialer{resp: &adapter.CallResponse{StatusCode: http.StatusServiceUnavailable, Body: []byte("busy")}}
	r, bot := newTestAdapter(t, dialer)

	if err := r.handleUpdate(context.Background(), callbackUpdate(7, 55, "entry")); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
	edit := bot.sentCopy()[0].(tgbotapi.EditMessageTextConfig)
	if !strings.Contains(edit.Text, "503") || !strings.Contains(edit.Text, "busy") {
		t.Fatalf("error text should contain status and body: %q", edit.Text)
	}
}

func TestExitCallback_TransportErrorIsReported(t *testing.T) {
	dialer := &stubDialer{err: errors.New("dial tcp: connection refused")}
	r, bot := newTestAdapter(t, dialer)

	if err := r.handleUpdate(context.Background(), callbackUpdate(7, 55, "exit")); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
	if len(dialer.calls) != 1 || dialer.calls[0] != "+380635154798->102" {
		t.Fatalf("expected one call to the exit number, got %v", dialer.calls)
	}
	edit := bot.sentCopy()[0].(tgbotapi.EditMessageTextConfig)
	if edit.Text != r.translator.T("call_unreachable") {
		t.Fatalf("unexpected transport error text %q", edit.Text)
	}
}

func TestUnknownCallback_IsIgnored(t *testing.T) {
	dialer := &stubDialer{}
	r, bot := newTestAdapter(t, dialer)

	if err := r.handleUpdate(context.Background(), callbackUpdate(7, 55, "unknown")); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
	if len(dialer.calls) != 0 {
		t.Fatalf("expected zero API calls, got %v", dialer.calls)
	}
	if sent := bot.sentCopy(); len(sent) != 0 {
		t.Fatalf("expected message to stay unchanged, got %d sends", len(sent))
	}
}

func TestCallbackWithoutMessage_SendsNewMessage(t *testing.T) {
	dialer := &stubDialer{resp: &adapter.CallResponse{StatusCode: http.StatusOK}}
	r, bot := newTestAdapter(t, dialer)

	up := callbackUpdate(9, 0, "entry")
	up.CallbackQuery.Message = nil
	if err := r.handleUpdate(context.Background(), up); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
	msg, ok := bot.sentCopy()[0].(tgbotapi.MessageConfig)
	if !ok || msg.ChatID != 9 {
		t.Fatalf("expected new message to user 9, got %+v", bot.sentCopy()[0])
	}
}

func TestStartPolling_DispatchesAndStops(t *testing.T) {
	dialer := &stubDialer{resp: &adapter.CallResponse{StatusCode: http.StatusOK}}
	r, bot := newTestAdapter(t, dialer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.StartPolling(ctx) }()

	bot.updates <- callbackUpdate(7, 55, "exit")
	select {
	case c := <-bot.sentCh:
		if edit, ok := c.(tgbotapi.EditMessageTextConfig); !ok || !strings.Contains(edit.Text, "102") {
			t.Fatalf("unexpected send %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("update was not handled")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("polling did not stop")
	}

	bot.mu.Lock()
	defer bot.mu.Unlock()
	if !bot.stopped {
		t.Fatal("expected StopReceivingUpdates to be called")
	}
	if _, ok := bot.requests[0].(tgbotapi.SetMyCommandsConfig); !ok {
		t.Fatalf("expected menu commands first, got %T", bot.requests[0])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("абв", 5); got != "абв" {
		t.Fatalf("short string changed: %q", got)
	}
	if got := truncate("абвгд", 2); got != "аб…" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
