package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"band_monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv(configFilePathENV, "")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", cfg.Monitor.Symbol)
	assert.Equal(t, models.TF1m, cfg.Timeframe())
	assert.Equal(t, models.PositionFlat, cfg.InitialPosition())
	assert.Equal(t, 12*time.Hour, cfg.Lookback())
	assert.Equal(t, 20, cfg.Strategy.Window)
	assert.Equal(t, 2.5, cfg.Strategy.Multiplier)
	assert.Equal(t, ExchangeBinance, cfg.Exchange.Name)
	assert.Zero(t, cfg.Notify.Retries)
}

func TestNewConfig_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: from-file
  chat_id: 7
exchange:
  name: okx
  ping_interval: 15s
monitor:
  symbol: ETH-USDT-SWAP
  timeframe: 4h
  position: 1
  lookback_days: 2.25
strategy:
  window: 30
  multiplier: 2
notify:
  retries: 2
  retry_delay: 250ms
`)
	t.Setenv(configFilePathENV, path)
	t.Setenv("TELEGRAM_TOKEN", "from-env")
	t.Setenv("BAND_MONITOR_TIMEFRAME", "1H")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, int64(7), cfg.Telegram.ChatID)
	assert.Equal(t, ExchangeOKX, cfg.Exchange.Name)
	assert.Equal(t, 15*time.Second, cfg.Exchange.PingInterval)
	assert.Equal(t, "ETH-USDT-SWAP", cfg.Monitor.Symbol)
	assert.Equal(t, models.TF1h, cfg.Timeframe())
	assert.Equal(t, models.PositionLong, cfg.InitialPosition())
	assert.Equal(t, 54*time.Hour, cfg.Lookback())
	assert.Equal(t, 30, cfg.Strategy.Window)
	assert.Equal(t, 2, cfg.Notify.Retries)
	assert.Equal(t, 250*time.Millisecond, cfg.Notify.RetryDelay)
	// не заданное в файле остаётся дефолтным
	assert.Equal(t, 1000, cfg.Monitor.HistoryLimit)
}

func TestNewConfig_MissingExplicitFile(t *testing.T) {
	t.Setenv(configFilePathENV, filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := NewConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"empty symbol":     func(c *Config) { c.Monitor.Symbol = " " },
		"bad timeframe":    func(c *Config) { c.Monitor.Timeframe = "7m" },
		"bad position":     func(c *Config) { c.Monitor.Position = -1 },
		"zero lookback":    func(c *Config) { c.Monitor.LookbackDays = 0 },
		"zero limit":       func(c *Config) { c.Monitor.HistoryLimit = 0 },
		"window too small": func(c *Config) { c.Strategy.Window = 1 },
		"zero k":           func(c *Config) { c.Strategy.Multiplier = 0 },
		"negative retries": func(c *Config) { c.Notify.Retries = -1 },
		"unknown exchange": func(c *Config) { c.Exchange.Name = "kraken" },
	}
	for name, mutate := range cases {
		c := defaults()
		mutate(&c)
		assert.Error(t, c.Validate(), name)
	}

	c := defaults()
	assert.NoError(t, c.Validate())
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "configs/values_local.yaml", configPath(""))
	assert.Equal(t, "configs/prod.yaml", configPath("prod.yaml"))
	assert.Equal(t, "/etc/bm/prod.yaml", configPath("/etc/bm/prod.yaml"))
}
