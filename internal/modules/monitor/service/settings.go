package service

import (
	"strings"
	"time"

	"band_monitor/internal/models"
	"band_monitor/internal/modules/config"

	"github.com/pkg/errors"
)

const symbolPlaceholder = "{symbol}"

// Settings — параметры одного прогона. Меняются только между прогонами.
type Settings struct {
	Symbol       string
	Timeframe    models.Timeframe
	Position     models.Position
	Lookback     time.Duration
	HistoryLimit int

	EntryMessage string
	ExitMessage  string
	Retries      int
	RetryDelay   time.Duration
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Symbol:       cfg.Monitor.Symbol,
		Timeframe:    cfg.Timeframe(),
		Position:     cfg.InitialPosition(),
		Lookback:     cfg.Lookback(),
		HistoryLimit: cfg.Monitor.HistoryLimit,
		EntryMessage: cfg.Notify.EntryMessage,
		ExitMessage:  cfg.Notify.ExitMessage,
		Retries:      cfg.Notify.Retries,
		RetryDelay:   cfg.Notify.RetryDelay,
	}
}

func (s Settings) validate() error {
	if strings.TrimSpace(s.Symbol) == "" {
		return errors.New("monitor: empty symbol")
	}
	if !s.Timeframe.Valid() {
		return errors.Errorf("monitor: unsupported timeframe %q", s.Timeframe)
	}
	if s.Lookback <= 0 {
		return errors.New("monitor: lookback must be positive")
	}
	if s.Retries < 0 {
		return errors.New("monitor: retries must be >= 0")
	}
	return nil
}

// Message — текст уведомления для действия, {symbol} заменяется на инструмент.
func (s Settings) Message(a models.Action) string {
	tpl := s.EntryMessage
	if a == models.ActionExit {
		tpl = s.ExitMessage
	}
	return strings.ReplaceAll(tpl, symbolPlaceholder, s.Symbol)
}
