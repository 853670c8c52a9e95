package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"band_monitor/internal/helper"
	"band_monitor/internal/models"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type candlesResp struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

// FetchBars: OKX отдаёт newest-first, листаем назад через after, пока не дошли до start
// или не набрали limit. Возвращаем по возрастанию времени.
func (c *Client) FetchBars(ctx context.Context, instID string, tf models.Timeframe, start time.Time, limit int) ([]models.Bar, error) {
	bar, err := okxBar(tf)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = candlesLimit
	}

	var newestFirst []models.Bar
	var after int64
	path, pageSize := "/api/v5/market/candles", candlesLimit
	for len(newestFirst) < limit {
		page, err := c.candlesPage(ctx, path, instID, bar, after, pageSize)
		if err != nil {
			return nil, err
		}
		reachedStart := false
		for _, b := range page {
			if b.OpenTime.Before(start) {
				reachedStart = true
				break
			}
			newestFirst = append(newestFirst, b)
		}
		if reachedStart || len(page) == 0 {
			break
		}
		after = page[len(page)-1].OpenTime.UnixMilli()
		// всё, что старше последних 1440 свечей, живёт только в history-candles
		path, pageSize = "/api/v5/market/history-candles", historyLimit
	}

	if len(newestFirst) > limit {
		newestFirst = newestFirst[:limit]
	}
	out := make([]models.Bar, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		out = append(out, newestFirst[i])
	}

	c.log.Debug("candles loaded",
		zap.String("inst_id", instID),
		zap.String("bar", bar),
		zap.Int("bars", len(out)),
	)
	return out, nil
}

// candlesPage — одна страница. Строка: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm]
func (c *Client) candlesPage(ctx context.Context, path, instID, bar string, after int64, limit int) ([]models.Bar, error) {
	q := url.Values{}
	q.Set("instId", instID)
	q.Set("bar", bar)
	q.Set("limit", strconv.Itoa(limit))
	if after > 0 {
		q.Set("after", strconv.FormatInt(after, 10))
	}
	u := c.cfg.RESTURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "okx candles")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "okx candles: read body")
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(b))
	}

	var r candlesResp
	if err := sonic.Unmarshal(b, &r); err != nil {
		return nil, errors.Wrap(err, "okx candles: decode")
	}
	if r.Code != "0" {
		return nil, fmt.Errorf("okx candles error: code=%s msg=%s", r.Code, r.Msg)
	}

	out := make([]models.Bar, 0, len(r.Data))
	for _, row := range r.Data {
		bar, _, err := parseCandleRow(row)
		if err != nil {
			return nil, errors.Wrap(err, "okx candles: row")
		}
		out = append(out, bar)
	}
	return out, nil
}

// parseCandleRow возвращает свечу и флаг confirm (последний элемент строки).
func parseCandleRow(row []string) (models.Bar, bool, error) {
	if len(row) < 6 {
		return models.Bar{}, false, fmt.Errorf("short row: %d fields", len(row))
	}
	tsMs, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.Bar{}, false, err
	}

	var px [5]float64
	for i := range px {
		if px[i], err = helper.ParsePrice(row[i+1]); err != nil {
			return models.Bar{}, false, err
		}
	}

	confirm := len(row) >= 9 && row[len(row)-1] == "1"
	return models.Bar{
		OpenTime: helper.UnixMilli(tsMs),
		Open:     px[0],
		High:     px[1],
		Low:      px[2],
		Close:    px[3],
		Volume:   px[4],
	}, confirm, nil
}
