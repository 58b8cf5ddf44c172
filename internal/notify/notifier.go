package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ig_bot/internal/models"
	"ig_bot/pkg/logger"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// PositionSource — кто умеет отдать текущие отслеживаемые позиции
// (команда /positions). Ставится после создания монитора, чтобы
// не плодить цикл зависимостей notify <-> monitor.
type PositionSource interface {
	Tracked() []models.TrackedPosition
}

// Telegram — пассивный нотифайер + обработка команды /positions.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64

	mu        sync.Mutex
	positions PositionSource

	done chan struct{}
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
	}, nil
}

func (t *Telegram) SetPositionSource(src PositionSource) {
	t.mu.Lock()
	t.positions = src
	t.mu.Unlock()
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		logger.Warn("telegram: не смогли отправить сообщение: %v", err)
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// /positions — вывод позиций, которые сейчас пасёт монитор.
func (t *Telegram) handlePositions() {
	t.mu.Lock()
	src := t.positions
	t.mu.Unlock()

	if src == nil {
		t.Send("❗️ Монитор ещё не запущен")
		return
	}
	positions := src.Tracked()
	if len(positions) == 0 {
		t.Send("📭 Открытых позиций нет")
		return
	}

	var b strings.Builder
	b.WriteString("📊 Отслеживаемые позиции:\n")
	for _, p := range positions {
		fmt.Fprintf(&b, "- %s [%s] size=%.2f entry=%.4f SL=%.4f TP=%.4f (dealId=%s)\n",
			p.Epic, p.Direction, p.Size, p.Entry, p.StopLoss, p.TakeProfit, p.DealID)
	}
	t.Send(b.String())
}

// Start: long-polling только ради команд в нашем чате.
// Горутина живёт до отмены ctx, факт выхода виден через Done.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}
	t.done = make(chan struct{})

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		defer close(t.done)
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message != nil && upd.Message.Chat != nil &&
					upd.Message.Chat.ID == t.chatID && upd.Message.IsCommand() {

					switch upd.Message.Command() {
					case "positions":
						go t.handlePositions()
					}
				}
			}
		}
	}()
	return nil
}

// Done закрывается, когда цикл обновлений полностью остановился.
func (t *Telegram) Done() <-chan struct{} { return t.done }

// Stop обрывает long-polling к Telegram; сама горутина выходит
// по отмене контекста, переданного в Start.
func (t *Telegram) Stop() {
	if t == nil || t.bot == nil {
		return
	}
	t.bot.StopReceivingUpdates()
}

// Stdout — заглушка: всё в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }
