package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"band_monitor/internal/metrics"
	"band_monitor/internal/modules/config"
	health "band_monitor/internal/modules/health/service"
	"band_monitor/internal/modules/market"
	monitor "band_monitor/internal/modules/monitor/service"
	strategy "band_monitor/internal/modules/strategy/service"
	"band_monitor/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// bands — разовый снимок полос по истории без подписки на поток.
func main() {
	rows := pflag.IntP("rows", "n", 10, "how many latest rows to print")
	symbol := pflag.String("symbol", "", "override monitor.symbol")
	tf := pflag.String("tf", "", "override monitor.timeframe")
	pflag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := applyOverrides(cfg, *symbol, *tf); err != nil {
		log.Fatal(err)
	}

	logger.SetServiceName(cfg.Service.Name + "-bands")
	l, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := market.NewSource(cfg, health.NewState(), metrics.NewMetrics(prometheus.NewRegistry()), l)
	if err != nil {
		l.Fatal("market source", zap.Error(err))
	}

	s := monitor.SettingsFromConfig(cfg)
	bars, err := src.FetchBars(ctx, s.Symbol, s.Timeframe, time.Now().UTC().Add(-s.Lookback), s.HistoryLimit)
	if err != nil {
		l.Fatal("fetch history", zap.Error(err))
	}

	bands := strategy.NewBandsFromConfig(cfg)
	out := bands.Compute(bars)
	if len(out) > *rows && *rows > 0 {
		out = out[len(out)-*rows:]
	}

	fmt.Printf("%s %s: %d bars, window=%d\n", s.Symbol, s.Timeframe, len(bars), bands.Window())
	for _, r := range out {
		fmt.Printf("%s  %s\n", r.OpenTime.Format(time.RFC3339), r)
	}
}

// applyOverrides — флаги поверх конфига; любой заданный флаг перепроверяет конфиг целиком.
func applyOverrides(cfg *config.Config, symbol, tf string) error {
	if symbol == "" && tf == "" {
		return nil
	}
	if symbol != "" {
		cfg.Monitor.Symbol = symbol
	}
	if tf != "" {
		cfg.Monitor.Timeframe = tf
	}
	return cfg.Validate()
}
