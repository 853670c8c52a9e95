package journal

import (
	"context"

	"band_monitor/internal/modules/journal/service"
	monitor "band_monitor/internal/modules/monitor/service"
	"band_monitor/pkg/db"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module — журнал сигналов в Postgres; без БД — Nop.
func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(
			func(lc fx.Lifecycle, m *db.PgTxManager, log *zap.Logger) monitor.Journal {
				if m == nil {
					return service.Nop{}
				}
				j := service.NewPG(m)
				lc.Append(fx.StartHook(func(ctx context.Context) error {
					if err := j.EnsureSchema(ctx); err != nil {
						return err
					}
					log.Info("signal journal ready")
					return nil
				}))
				return j
			},
		),
	)
}
