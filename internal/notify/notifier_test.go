package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ig_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// fakeTelegramAPI отвечает как api.telegram.org: getMe для конструктора,
// getUpdates для long-polling, sendMessage — успехом или ошибкой.
func fakeTelegramAPI(t *testing.T, sendFails bool, sent chan<- struct{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"test_bot"}}`)
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			fmt.Fprint(w, `{"ok":true,"result":[]}`)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			select {
			case sent <- struct{}{}:
			default:
			}
			if sendFails {
				fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
				return
			}
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"date":1,"chat":{"id":42,"type":"private"},"text":"hi"}}`)
		default:
			fmt.Fprint(w, `{"ok":true,"result":{}}`)
		}
	}))
}

func newTestTelegram(t *testing.T, srv *httptest.Server) *Telegram {
	t.Helper()
	b, err := tgbot.NewBotAPIWithAPIEndpoint("123:abc", srv.URL+"/bot%s/%s")
	require.NoError(t, err)
	return &Telegram{bot: b, chatID: 42}
}

func TestTelegramSendFailureIsLoggedNotPanicked(t *testing.T) {
	sent := make(chan struct{}, 1)
	srv := fakeTelegramAPI(t, true, sent)
	defer srv.Close()

	tg := newTestTelegram(t, srv)

	// отказ sendMessage не должен ронять вызывающего, только лог
	assert.NotPanics(t, func() { tg.Send("привет") })

	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("sendMessage так и не был вызван")
	}
}

func TestTelegramSendfFormats(t *testing.T) {
	sent := make(chan struct{}, 1)
	srv := fakeTelegramAPI(t, false, sent)
	defer srv.Close()

	tg := newTestTelegram(t, srv)
	tg.Sendf("позиция %s закрыта", "deal-1")

	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("sendMessage так и не был вызван")
	}
}

func TestTelegramStartStopsOnCancel(t *testing.T) {
	srv := fakeTelegramAPI(t, false, make(chan struct{}, 1))
	defer srv.Close()

	tg := newTestTelegram(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, tg.Start(ctx))

	cancel()
	tg.Stop()

	select {
	case <-tg.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("long-polling горутина не вышла после отмены контекста")
	}
}

func TestNilTelegramIsSafe(t *testing.T) {
	var tg *Telegram
	assert.NotPanics(t, func() {
		tg.Send("ничего")
		tg.Stop()
		require.NoError(t, tg.Start(context.Background()))
	})
}
