package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"band_monitor/internal/models"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type candleFrame struct {
	Event string `json:"event"`
	Arg   struct {
		Channel string `json:"channel"`
		InstID  string `json:"instId"`
	} `json:"arg"`
	Data [][]string `json:"data"`
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
}

// Subscribe — поток апдейтов свечи instID по таймфрейму, включая незакрытую (confirm=0).
// Канал закрывается по ctx; обрывы переподключаются.
func (c *Client) Subscribe(ctx context.Context, instID string, tf models.Timeframe) (<-chan models.BarUpdate, error) {
	if strings.TrimSpace(instID) == "" {
		return nil, fmt.Errorf("okx: empty instId")
	}
	bar, err := okxBar(tf)
	if err != nil {
		return nil, err
	}

	channel := "candle" + bar // "1H" -> "candle1H"
	ch := make(chan models.BarUpdate, c.cfg.QueueSize)
	sub := map[string]any{
		"op": "subscribe",
		"args": []map[string]string{{
			"channel": channel,
			"instId":  instID,
		}},
	}

	go func() {
		defer close(ch)
		defer c.setConnected(false)

		log := c.log.With(zap.String("channel", channel), zap.String("inst_id", instID))
		for {
			log.Info("ws connect")
			conn, _, err := c.wsDialer.DialContext(ctx, c.cfg.WSURL, nil)
			if err != nil {
				log.Warn("ws dial error", zap.Error(err))
				if !sleepCtx(ctx, c.cfg.ReconnectDelay) {
					return
				}
				continue
			}

			if err := conn.WriteJSON(sub); err != nil {
				log.Warn("ws subscribe error", zap.Error(err))
				_ = conn.Close()
				if !sleepCtx(ctx, c.cfg.ReconnectDelay) {
					return
				}
				continue
			}
			c.setConnected(true)

			if !c.readLoop(ctx, conn, channel, instID, ch, log) {
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

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, channel, instID string, ch chan<- models.BarUpdate, log *zap.Logger) bool {
	done := make(chan struct{})
	defer close(done)

	// keepalive: текстовый "ping" раз в PingInterval, иначе OKX закрывает соединение
	go func() {
		t := time.NewTicker(c.cfg.PingInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = conn.Close()
				return
			case <-done:
				_ = conn.Close()
				return
			case <-t.C:
				_ = conn.WriteMessage(websocket.TextMessage, []byte("ping"))
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
		if string(msg) == "pong" {
			continue
		}

		updates, err := decodeFrame(msg, channel, instID)
		if err != nil {
			log.Warn("ws frame error", zap.Error(err))
			continue
		}
		for _, upd := range updates {
			select {
			case ch <- upd:
			case <-ctx.Done():
				return false
			}
		}
	}
}

// decodeFrame: в одном кадре может прийти несколько строк — отдаём все по порядку.
func decodeFrame(msg []byte, channel, instID string) ([]models.BarUpdate, error) {
	var frame candleFrame
	if err := sonic.Unmarshal(msg, &frame); err != nil {
		return nil, err
	}
	if frame.Event == "error" {
		return nil, fmt.Errorf("okx ws error: code=%s msg=%s", frame.Code, frame.Msg)
	}
	if frame.Arg.Channel != channel || frame.Arg.InstID != instID || len(frame.Data) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	out := make([]models.BarUpdate, 0, len(frame.Data))
	for _, row := range frame.Data {
		bar, confirm, err := parseCandleRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, models.BarUpdate{
			EventTime: now,
			OpenTime:  bar.OpenTime,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    bar.Volume,
			IsFinal:   confirm,
		})
	}
	return out, nil
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
