package main

import (
	"testing"

	"band_monitor/internal/models"
	"band_monitor/internal/modules/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	cfg, err := config.NewConfig()
	require.NoError(t, err)
	return cfg
}

func TestApplyOverrides(t *testing.T) {
	cfg := baseConfig(t)
	require.NoError(t, applyOverrides(cfg, "ETHUSDT", "1h"))
	assert.Equal(t, "ETHUSDT", cfg.Monitor.Symbol)
	assert.Equal(t, models.TF1h, cfg.Timeframe())

	cfg = baseConfig(t)
	want := *cfg
	require.NoError(t, applyOverrides(cfg, "", ""))
	assert.Equal(t, want, *cfg)
}

func TestApplyOverrides_ValidatesEitherFlag(t *testing.T) {
	cfg := baseConfig(t)
	err := applyOverrides(cfg, "   ", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitor.symbol")

	cfg = baseConfig(t)
	err = applyOverrides(cfg, "", "7m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitor.timeframe")

	// только --symbol: остальной конфиг тоже проверяется
	cfg = baseConfig(t)
	cfg.Strategy.Window = 1
	err = applyOverrides(cfg, "ETHUSDT", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy.window")
}
