package monitor

import (
	"context"

	"band_monitor/internal/metrics"
	"band_monitor/internal/modules/config"
	health "band_monitor/internal/modules/health/service"
	"band_monitor/internal/modules/monitor/service"
	strategy "band_monitor/internal/modules/strategy/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewCoordinator(
	cfg *config.Config,
	bands *strategy.Bands,
	history service.HistoryProvider,
	feed service.UpdateFeed,
	notifier service.Notifier,
	journal service.Journal,
	state *health.State,
	m *metrics.Metrics,
	log *zap.Logger,
) (*service.Coordinator, error) {
	return service.NewCoordinator(service.SettingsFromConfig(cfg), service.Deps{
		History:  history,
		Feed:     feed,
		Notifier: notifier,
		Journal:  journal,
		Status:   state,
		Bands:    bands,
		Metrics:  m,
		Log:      log.Named("monitor"),
	})
}

// Module крутит координатор в фоне. Фатальная ошибка прогона гасит приложение с кодом 1.
func Module() fx.Option {
	return fx.Module("monitor",
		fx.Provide(
			NewCoordinator,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			sh fx.Shutdowner,
			c *service.Coordinator,
			log *zap.Logger,
		) {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						defer close(done)
						if err := c.Run(ctx); err != nil {
							log.Error("monitor stopped", zap.Error(err))
							_ = sh.Shutdown(fx.ExitCode(1))
							return
						}
						log.Info("monitor stopped")
					}()
					return nil
				},
				OnStop: func(stopCtx context.Context) error {
					cancel()
					select {
					case <-done:
						return nil
					case <-stopCtx.Done():
						return stopCtx.Err()
					}
				},
			})
		}),
	)
}
