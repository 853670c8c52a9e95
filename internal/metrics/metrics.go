package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — счётчики монитора полос.
type Metrics struct {
	UpdatesTotal       prometheus.Counter
	StaleUpdatesTotal  prometheus.Counter
	BarsCompletedTotal prometheus.Counter
	SignalsTotal       *prometheus.CounterVec // labels: action=enter|exit
	NotifyFailures     prometheus.Counter
	WSConnects         prometheus.Counter
	WSConnected        prometheus.Gauge
	Position           prometheus.Gauge // 0=flat, 1=long
	IndicatorDur       prometheus.Histogram
}

// NewMetrics регистрирует метрики в reg. nil — prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		UpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "band_monitor_updates_total",
			Help: "Bar updates received from the live feed",
		}),
		StaleUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "band_monitor_stale_updates_total",
			Help: "Updates dropped because they target an already closed bar",
		}),
		BarsCompletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "band_monitor_bars_completed_total",
			Help: "Bars that moved from in-progress to complete",
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "band_monitor_signals_total",
			Help: "Delivered entry/exit notifications",
		}, []string{"action"}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "band_monitor_notify_failures_total",
			Help: "Failed notification attempts",
		}),
		WSConnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "band_monitor_ws_connects_total",
			Help: "Successful WebSocket (re)connections",
		}),
		WSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "band_monitor_ws_connected",
			Help: "Live feed connection state (0/1)",
		}),
		Position: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "band_monitor_position",
			Help: "Current position (0=flat, 1=long)",
		}),
		IndicatorDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "band_monitor_indicator_duration_seconds",
			Help:    "Band recomputation latency per completed bar",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
	}

	reg.MustRegister(
		m.UpdatesTotal,
		m.StaleUpdatesTotal,
		m.BarsCompletedTotal,
		m.SignalsTotal,
		m.NotifyFailures,
		m.WSConnects,
		m.WSConnected,
		m.Position,
		m.IndicatorDur,
	)
	return m
}

// SetWSConnected — наблюдатель соединения для клиентов бирж.
func (m *Metrics) SetWSConnected(v bool) {
	if v {
		m.WSConnects.Inc()
		m.WSConnected.Set(1)
		return
	}
	m.WSConnected.Set(0)
}
