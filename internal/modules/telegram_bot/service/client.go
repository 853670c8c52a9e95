package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	Token  string
	ChatID int64
	// APIEndpoint — формат tgbot.APIEndpoint; пусто — api.telegram.org
	APIEndpoint string
	Timeout     time.Duration
}

// Telegram — пассивный нотифайер: только отправка в один чат.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	log    *zap.Logger
}

func NewTelegram(cfg Config, log *zap.Logger) (*Telegram, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram: empty token")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram: empty chat_id")
	}
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = tgbot.APIEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	b, err := tgbot.NewBotAPIWithClient(cfg.Token, cfg.APIEndpoint, &http.Client{Timeout: cfg.Timeout})
	if err != nil {
		return nil, errors.Wrap(err, "telegram: getMe")
	}
	log.Info("telegram authorized", zap.String("bot", b.Self.UserName))

	return &Telegram{
		bot:    b,
		chatID: cfg.ChatID,
		log:    log.Named("telegram"),
	}, nil
}

// Notify отправляет текст в чат. Ошибка Bot API возвращается наверх.
func (t *Telegram) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := t.bot.Send(tgbot.NewMessage(t.chatID, text))
	if err != nil {
		return errors.Wrap(err, "telegram: sendMessage")
	}
	t.log.Debug("message sent", zap.Int("message_id", msg.MessageID))
	return nil
}

// Stdout — заглушка без токена: всё пишет в лог и всегда успешна.
type Stdout struct {
	log *zap.Logger
}

func NewStdout(log *zap.Logger) *Stdout { return &Stdout{log: log.Named("stdout_sink")} }

func (s *Stdout) Notify(_ context.Context, text string) error {
	s.log.Info("notification", zap.String("text", text))
	return nil
}
