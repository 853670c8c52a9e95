package postgres

import (
	"context"
	"fmt"

	"band_monitor/internal/modules/config"
	"band_monitor/pkg/db"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module отдаёт *db.PgTxManager. При пустом db_dsn — nil, журнал тогда не пишется.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					log.Info("postgres disabled: empty db_dsn")
					return nil, nil
				}
				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN:      cfg.DB,
					MaxConns: 4,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					poolMaster.Close()
					return nil, err
				}

				m := db.NewPgTxManager(poolMaster)
				lc.Append(fx.StopHook(m.Close))
				return m, nil
			},
		),
	)
}
