package main

import (
	"context"
	"log"

	"band_monitor/internal/metrics"
	"band_monitor/internal/modules/config"
	"band_monitor/internal/modules/health"
	"band_monitor/internal/modules/journal"
	logmodule "band_monitor/internal/modules/logger"
	"band_monitor/internal/modules/market"
	"band_monitor/internal/modules/monitor"
	"band_monitor/internal/modules/postgres"
	"band_monitor/internal/modules/strategy"
	telegram "band_monitor/internal/modules/telegram_bot"
	"band_monitor/internal/modules/tracing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		config.Module(),
		logmodule.Module(),
		tracing.Module(),
		metrics.Module(),
		health.Module(),
		postgres.Module(),
		journal.Module(),
		market.Module(),
		telegram.Module(),
		strategy.Module(),
		monitor.Module(),
	)
	if err := app.Err(); err != nil {
		log.Fatal(err)
	}
	app.Run()
}
