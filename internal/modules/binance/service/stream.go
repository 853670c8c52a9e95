package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"band_monitor/internal/helper"
	"band_monitor/internal/models"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type klineEvent struct {
	Type      string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	K         struct {
		Start    int64  `json:"t"`
		Interval string `json:"i"`
		Open     string `json:"o"`
		Close    string `json:"c"`
		High     string `json:"h"`
		Low      string `json:"l"`
		Volume   string `json:"v"`
		Final    bool   `json:"x"`
	} `json:"k"`
}

// Subscribe открывает kline-стрим <symbol>@kline_<tf>. Отдаёт все апдейты,
// в том числе по незакрытой свече. Канал закрывается по ctx.
// При обрыве переподключается сам.
func (c *Client) Subscribe(ctx context.Context, symbol string, tf models.Timeframe) (<-chan models.BarUpdate, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("binance: empty symbol")
	}
	if !tf.Valid() {
		return nil, fmt.Errorf("binance: unsupported timeframe %q", tf)
	}

	stream := strings.ToLower(symbol) + "@kline_" + tf.String()
	u := strings.TrimRight(c.cfg.WSURL, "/") + "/" + stream
	ch := make(chan models.BarUpdate, c.cfg.QueueSize)

	go func() {
		defer close(ch)
		defer c.setConnected(false)

		log := c.log.With(zap.String("stream", stream))
		for {
			log.Info("ws connect")
			conn, _, err := c.wsDialer.DialContext(ctx, u, nil)
			if err != nil {
				log.Warn("ws dial error", zap.Error(err))
				if !sleepCtx(ctx, c.cfg.ReconnectDelay) {
					return
				}
				continue
			}
			c.setConnected(true)

			if !c.readLoop(ctx, conn, ch, log) {
				return
			}
			c.setConnected(false)

			if !sleepCtx(ctx, c.cfg.ReconnectDelay) {
				return
			}
		}
	}()

	return ch, nil
}

// readLoop читает до ошибки соединения. false — ctx отменён, выходим совсем.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, ch chan<- models.BarUpdate, log *zap.Logger) bool {
	done := make(chan struct{})
	defer close(done)

	// закрываем соединение по ctx, чтобы разблокировать ReadMessage
	go func() {
		var ping <-chan time.Time
		if c.cfg.PingInterval > 0 {
			t := time.NewTicker(c.cfg.PingInterval)
			defer t.Stop()
			ping = t.C
		}
		for {
			select {
			case <-ctx.Done():
				_ = conn.Close()
				return
			case <-done:
				_ = conn.Close()
				return
			case <-ping:
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			log.Warn("ws read error", zap.Error(err))
			return true
		}

		upd, ok, err := decodeKline(msg)
		if err != nil {
			log.Debug("ws skip frame", zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		select {
		case ch <- upd:
		case <-ctx.Done():
			return false
		}
	}
}

func decodeKline(msg []byte) (models.BarUpdate, bool, error) {
	var ev klineEvent
	if err := sonic.Unmarshal(msg, &ev); err != nil {
		return models.BarUpdate{}, false, err
	}
	if ev.Type != "kline" {
		return models.BarUpdate{}, false, nil
	}

	var px [5]float64
	for i, s := range []string{ev.K.Open, ev.K.High, ev.K.Low, ev.K.Close, ev.K.Volume} {
		v, err := helper.ParsePrice(s)
		if err != nil {
			return models.BarUpdate{}, false, err
		}
		px[i] = v
	}

	return models.BarUpdate{
		EventTime: helper.UnixMilli(ev.EventTime),
		OpenTime:  helper.UnixMilli(ev.K.Start),
		Open:      px[0],
		High:      px[1],
		Low:       px[2],
		Close:     px[3],
		Volume:    px[4],
		IsFinal:   ev.K.Final,
	}, true, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
