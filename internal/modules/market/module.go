package market

import (
	"band_monitor/internal/metrics"
	binance "band_monitor/internal/modules/binance/service"
	"band_monitor/internal/modules/config"
	health "band_monitor/internal/modules/health/service"
	monitor "band_monitor/internal/modules/monitor/service"
	okx "band_monitor/internal/modules/okx_websocket/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Source — биржа целиком: история для прогрева и живой поток.
type Source interface {
	monitor.HistoryProvider
	monitor.UpdateFeed
}

// connObserver раздаёт состояние сокета в health и метрики.
type connObserver struct {
	state *health.State
	m     *metrics.Metrics
}

func (o connObserver) SetWSConnected(v bool) {
	o.state.SetWSConnected(v)
	o.m.SetWSConnected(v)
}

func NewSource(cfg *config.Config, state *health.State, m *metrics.Metrics, log *zap.Logger) (Source, error) {
	obs := connObserver{state: state, m: m}
	ex := cfg.Exchange

	switch ex.Name {
	case config.ExchangeBinance:
		return binance.NewClient(binance.Config{
			RESTURL:        ex.RESTURL,
			WSURL:          ex.WSURL,
			PingInterval:   ex.PingInterval,
			ReconnectDelay: ex.ReconnectDelay,
			HTTPTimeout:    ex.HTTPTimeout,
			QueueSize:      cfg.Monitor.QueueSize,
		}, log, obs), nil
	case config.ExchangeOKX:
		return okx.NewClient(okx.Config{
			RESTURL:        ex.RESTURL,
			WSURL:          ex.WSURL,
			PingInterval:   ex.PingInterval,
			ReconnectDelay: ex.ReconnectDelay,
			HTTPTimeout:    ex.HTTPTimeout,
			QueueSize:      cfg.Monitor.QueueSize,
		}, log, obs), nil
	}
	return nil, errors.Errorf("unknown exchange %q", ex.Name)
}

func Module() fx.Option {
	return fx.Module("market",
		fx.Provide(
			NewSource,
			func(s Source) monitor.HistoryProvider { return s },
			func(s Source) monitor.UpdateFeed { return s },
		),
	)
}
