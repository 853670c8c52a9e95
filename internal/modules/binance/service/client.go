package service

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	DefaultRESTURL = "https://api.binance.com"
	DefaultWSURL   = "wss://stream.binance.com:9443/ws"

	// максимум строк на один запрос /api/v3/klines
	pageLimit = 1000
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

// Client — Binance spot: история свечей через REST и kline-стрим через WebSocket.
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
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	return &Client{
		cfg:      cfg,
		log:      log.Named("binance"),
		obs:      obs,
		http:     &http.Client{Timeout: cfg.HTTPTimeout},
		wsDialer: &websocket.Dialer{HandshakeTimeout: cfg.HTTPTimeout},
	}
}

func (c *Client) setConnected(v bool) {
	if c.obs != nil {
		c.obs.SetWSConnected(v)
	}
}
