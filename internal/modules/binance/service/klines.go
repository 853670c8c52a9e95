package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"band_monitor/internal/helper"
	"band_monitor/internal/models"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var numberAPI = sonic.Config{UseNumber: true}.Froze()

// FetchBars тянет все свечи начиная со start (страницами по 1000) и оставляет последние limit.
// limit — жёсткий потолок: при длинном lookback начало ряда (и затравка EMA) отрезается.
// Формат строки: [openTime, o, h, l, c, v, closeTime, quoteVol, trades, takerBase, takerQuote, ignore]
func (c *Client) FetchBars(ctx context.Context, symbol string, tf models.Timeframe, start time.Time, limit int) ([]models.Bar, error) {
	if !tf.Valid() {
		return nil, fmt.Errorf("binance: unsupported timeframe %q", tf)
	}
	if limit <= 0 {
		limit = pageLimit
	}

	var out []models.Bar
	from := start
	for {
		page, err := c.klinesPage(ctx, symbol, tf, from)
		if err != nil {
			return nil, err
		}
		for _, b := range page {
			if len(out) > 0 && !b.OpenTime.After(out[len(out)-1].OpenTime) {
				continue
			}
			out = append(out, b)
		}
		if len(page) < pageLimit {
			break
		}
		from = page[len(page)-1].OpenTime.Add(tf.Duration())
		if from.After(time.Now()) {
			break
		}
	}

	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	c.log.Debug("klines loaded",
		zap.String("symbol", symbol),
		zap.String("tf", tf.String()),
		zap.Int("bars", len(out)),
	)
	return out, nil
}

func (c *Client) klinesPage(ctx context.Context, symbol string, tf models.Timeframe, from time.Time) ([]models.Bar, error) {
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol))
	q.Set("interval", tf.String())
	q.Set("startTime", strconv.FormatInt(from.UnixMilli(), 10))
	q.Set("limit", strconv.Itoa(pageLimit))
	u := c.cfg.RESTURL + "/api/v3/klines?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "binance klines")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "binance klines: read body")
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("binance klines: http %d: %s", resp.StatusCode, string(b))
	}

	var rows [][]any
	if err := numberAPI.Unmarshal(b, &rows); err != nil {
		return nil, errors.Wrap(err, "binance klines: decode")
	}

	out := make([]models.Bar, 0, len(rows))
	for i, row := range rows {
		bar, err := parseKlineRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "binance klines: row %d", i)
		}
		out = append(out, bar)
	}
	return out, nil
}

func parseKlineRow(row []any) (models.Bar, error) {
	if len(row) < 6 {
		return models.Bar{}, fmt.Errorf("short row: %d fields", len(row))
	}
	num, ok := row[0].(json.Number)
	if !ok {
		return models.Bar{}, fmt.Errorf("open time: unexpected %T", row[0])
	}
	ts, err := num.Int64()
	if err != nil {
		return models.Bar{}, err
	}

	var px [5]float64
	for i := range px {
		s, ok := row[i+1].(string)
		if !ok {
			return models.Bar{}, fmt.Errorf("field %d: unexpected %T", i+1, row[i+1])
		}
		if px[i], err = helper.ParsePrice(s); err != nil {
			return models.Bar{}, err
		}
	}

	return models.Bar{
		OpenTime: helper.UnixMilli(ts),
		Open:     px[0],
		High:     px[1],
		Low:      px[2],
		Close:    px[3],
		Volume:   px[4],
	}, nil
}
