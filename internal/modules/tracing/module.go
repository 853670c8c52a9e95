package tracing

import (
	"band_monitor/internal/modules/config"
	"band_monitor/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module("tracing",
		fx.Provide(
			func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (opentracing.Tracer, error) {
				tracing.SetServiceName(cfg.Service.Name)
				tracer, closer, err := tracing.InitTracer(tracing.Config{
					Enabled: cfg.Tracing.Enabled,
					Host:    cfg.Tracing.Host,
					Port:    cfg.Tracing.Port,
				})
				if err != nil {
					return nil, err
				}
				if cfg.Tracing.Enabled {
					log.Info("jaeger tracing enabled",
						zap.String("host", cfg.Tracing.Host),
						zap.Int("port", cfg.Tracing.Port),
					)
				}
				lc.Append(fx.StopHook(closer))
				return tracer, nil
			},
		),
		// глобальный трейсер нужен до старта монитора
		fx.Invoke(func(opentracing.Tracer) {}),
	)
}
