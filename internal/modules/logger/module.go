package logger

import (
	"band_monitor/internal/modules/config"
	"band_monitor/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module("logger",
		fx.Provide(
			func(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
				logger.SetServiceName(cfg.Service.Name)
				l, err := logger.New(logger.Config{
					Level:       cfg.Log.Level,
					Development: cfg.Log.Development,
				})
				if err != nil {
					return nil, err
				}
				lc.Append(fx.StopHook(func() {
					_ = l.Sync()
				}))
				return l, nil
			},
		),
	)
}
