package telegram

import (
	"band_monitor/internal/modules/config"
	monitor "band_monitor/internal/modules/monitor/service"
	"band_monitor/internal/modules/telegram_bot/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module отдаёт monitor.Notifier: Telegram при заданном токене, иначе запись в лог.
func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			func(cfg *config.Config, log *zap.Logger) (monitor.Notifier, error) {
				if cfg.Telegram.Token == "" {
					log.Warn("telegram token is empty, notifications go to log")
					return service.NewStdout(log), nil
				}
				tg, err := service.NewTelegram(service.Config{
					Token:  cfg.Telegram.Token,
					ChatID: cfg.Telegram.ChatID,
				}, log)
				if err != nil {
					return nil, err
				}
				return tg, nil
			},
		),
	)
}
