package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.UpdatesTotal.Inc()
	m.SignalsTotal.WithLabelValues("enter").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["band_monitor_updates_total"])
	assert.True(t, names["band_monitor_signals_total"])
	assert.True(t, names["band_monitor_position"])

	// повторная регистрация в том же реестре — паника
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestSetWSConnected(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.SetWSConnected(true)
	m.SetWSConnected(false)
	m.SetWSConnected(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WSConnects))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WSConnected))

	m.SetWSConnected(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.WSConnected))
}
