package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"band_monitor/internal/models"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	defaultConfigFile = "values_local.yaml"
	envPrefix         = "BAND_MONITOR"
)

const (
	ExchangeBinance = "binance"
	ExchangeOKX     = "okx"
)

// Config ...
type Config struct {
	Service struct {
		Name      string `yaml:"name"`
		Host      string `yaml:"host"`
		AdminPort int    `yaml:"admin_port"`
	} `yaml:"service"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	// Журнал сигналов. Пустой DSN — журнал выключен.
	DB string `yaml:"db_dsn"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"tracing"`

	Exchange struct {
		Name           string        `yaml:"name"` // binance | okx
		RESTURL        string        `yaml:"rest_url"`
		WSURL          string        `yaml:"ws_url"`
		PingInterval   time.Duration `yaml:"ping_interval"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		HTTPTimeout    time.Duration `yaml:"http_timeout"`
	} `yaml:"exchange"`

	Monitor struct {
		Symbol       string  `yaml:"symbol"`
		Timeframe    string  `yaml:"timeframe"`
		Position     int     `yaml:"position"`      // 0 — flat, 1 — long
		LookbackDays float64 `yaml:"lookback_days"` // можно дробное: 0.5 => 12h
		HistoryLimit int     `yaml:"history_limit"`
		QueueSize    int     `yaml:"queue_size"`
	} `yaml:"monitor"`

	Strategy struct {
		Window     int     `yaml:"window"`     // N для EMA и stdev
		Multiplier float64 `yaml:"multiplier"` // k
	} `yaml:"strategy"`

	Notify struct {
		EntryMessage string        `yaml:"entry_message"` // {symbol} подставляется
		ExitMessage  string        `yaml:"exit_message"`
		Retries      int           `yaml:"retries"` // 0 — fail-stop сразу
		RetryDelay   time.Duration `yaml:"retry_delay"`
	} `yaml:"notify"`
}

func defaults() Config {
	var c Config
	c.Service.Name = "band_monitor"
	c.Service.Host = "0.0.0.0"
	c.Service.AdminPort = 8080
	c.Log.Level = "info"
	c.Tracing.Host = "localhost"
	c.Tracing.Port = 6831

	c.Exchange.Name = ExchangeBinance
	c.Exchange.PingInterval = 20 * time.Second
	c.Exchange.ReconnectDelay = time.Second
	c.Exchange.HTTPTimeout = 10 * time.Second

	c.Monitor.Symbol = "BTCUSDT"
	c.Monitor.Timeframe = "1m"
	c.Monitor.LookbackDays = 0.5
	c.Monitor.HistoryLimit = 1000
	c.Monitor.QueueSize = 1024

	c.Strategy.Window = 20
	c.Strategy.Multiplier = 2.5

	c.Notify.EntryMessage = "A buy signal for {symbol} was generated!"
	c.Notify.ExitMessage = "A sell signal for {symbol} was generated!"
	c.Notify.RetryDelay = time.Second
	return c
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	config := defaults()

	path := configPath(os.Getenv(configFilePathENV))
	file, err := os.Open(path)
	switch {
	case err == nil:
		defer func() {
			_ = file.Close()
		}()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return nil, errors.Wrapf(err, "decode config file %s", path)
		}
	case os.IsNotExist(err) && os.Getenv(configFilePathENV) == "":
		// локального файла нет — живём на дефолтах и env
	default:
		return nil, errors.Wrapf(err, "open config file %s", path)
	}

	applyEnv(&config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func configPath(name string) string {
	if name == "" {
		name = defaultConfigFile
	}
	if strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	return "configs/" + name
}

// applyEnv — переопределения из окружения (BAND_MONITOR_*), плюс старые имена переменных.
func applyEnv(c *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_token", envPrefix+"_TELEGRAM_TOKEN", "TELEGRAM_TOKEN")
	_ = v.BindEnv("telegram_chat_id", envPrefix+"_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
	_ = v.BindEnv("db_dsn", envPrefix+"_DB_DSN", "DATABASE_DSN")

	if v.IsSet("telegram_token") {
		c.Telegram.Token = v.GetString("telegram_token")
	}
	if v.IsSet("telegram_chat_id") {
		c.Telegram.ChatID = v.GetInt64("telegram_chat_id")
	}
	if v.IsSet("db_dsn") {
		c.DB = v.GetString("db_dsn")
	}
	if v.IsSet("exchange") {
		c.Exchange.Name = v.GetString("exchange")
	}
	if v.IsSet("symbol") {
		c.Monitor.Symbol = v.GetString("symbol")
	}
	if v.IsSet("timeframe") {
		c.Monitor.Timeframe = v.GetString("timeframe")
	}
	if v.IsSet("position") {
		c.Monitor.Position = v.GetInt("position")
	}
	if v.IsSet("lookback_days") {
		c.Monitor.LookbackDays = v.GetFloat64("lookback_days")
	}
	if v.IsSet("window") {
		c.Strategy.Window = v.GetInt("window")
	}
	if v.IsSet("multiplier") {
		c.Strategy.Multiplier = v.GetFloat64("multiplier")
	}
	if v.IsSet("log_level") {
		c.Log.Level = v.GetString("log_level")
	}
	if v.IsSet("tracing_enabled") {
		c.Tracing.Enabled = v.GetBool("tracing_enabled")
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Monitor.Symbol) == "" {
		return fmt.Errorf("monitor.symbol is required")
	}
	if _, err := models.ParseTimeframe(c.Monitor.Timeframe); err != nil {
		return fmt.Errorf("monitor.timeframe: %w", err)
	}
	if _, err := models.ParsePosition(c.Monitor.Position); err != nil {
		return fmt.Errorf("monitor.position: %w", err)
	}
	if c.Monitor.LookbackDays <= 0 {
		return fmt.Errorf("monitor.lookback_days must be > 0")
	}
	if c.Monitor.HistoryLimit <= 0 {
		return fmt.Errorf("monitor.history_limit must be > 0")
	}
	if c.Strategy.Window < 2 {
		return fmt.Errorf("strategy.window must be >= 2")
	}
	if c.Strategy.Multiplier <= 0 {
		return fmt.Errorf("strategy.multiplier must be > 0")
	}
	if c.Notify.Retries < 0 {
		return fmt.Errorf("notify.retries must be >= 0")
	}
	switch c.Exchange.Name {
	case ExchangeBinance, ExchangeOKX:
	default:
		return fmt.Errorf("exchange.name must be %q or %q, got %q", ExchangeBinance, ExchangeOKX, c.Exchange.Name)
	}
	return nil
}

// Timeframe — уже проверенный Validate таймфрейм.
func (c *Config) Timeframe() models.Timeframe {
	tf, _ := models.ParseTimeframe(c.Monitor.Timeframe)
	return tf
}

func (c *Config) InitialPosition() models.Position {
	p, _ := models.ParsePosition(c.Monitor.Position)
	return p
}

// Lookback переводит дробные дни в длительность.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Monitor.LookbackDays * float64(24*time.Hour))
}
