package service

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	DefaultRESTURL = "https://www.okx.com"
	DefaultWSURL   = "wss://ws.okx.com:8443/ws/v5/business"

	// /market/candles отдаёт не больше 300 строк, /market/history-candles — 100
	candlesLimit = 300
	historyLimit = 100
)

type ConnObserver interface {
	SetWSConnected(v bool)
}

type Config struct {
	RESTURL        string
	WSURL          string
	PingInterval   time.Duration
	ReconnectDelay time.Duration
	HTTPTimeout    time.Duration
	QueueSize      int
}

// Client — свечи OKX: REST для прогрева и business WebSocket для живых апдейтов.
type Client struct {
	cfg Config
	log *zap.Logger
	obs ConnObserver

	http     *http.Client
	wsDialer *websocket.Dialer
}

func NewClient(cfg Config, log *zap.Logger, obs ConnObserver) *Client {
	if cfg.RESTURL == "" {
		cfg.RESTURL = DefaultRESTURL
	}
	if cfg.WSURL == "" {
		cfg.WSURL = DefaultWSURL
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = time.Second
	}
	if cfg.PingInterval <= 0 {
		// OKX рвёт соединение через 30s тишины
		cfg.PingInterval = 20 * time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	return &Client{
		cfg:      cfg,
		log:      log.Named("okx"),
		obs:      obs,
		wsDialer: &websocket.Dialer{HandshakeTimeout: cfg.HTTPTimeout},
		http:     &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func (c *Client) setConnected(v bool) {
	if c.obs != nil {
		c.obs.SetWSConnected(v)
	}
}
