package models

import (
	"fmt"
	"time"

	"band_monitor/internal/helper"
)

type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF3m  Timeframe = "3m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF2h  Timeframe = "2h"
	TF4h  Timeframe = "4h"
	TF6h  Timeframe = "6h"
	TF8h  Timeframe = "8h"
	TF12h Timeframe = "12h"
	TF1d  Timeframe = "1d"
)

var timeframes = map[Timeframe]time.Duration{
	TF1m:  time.Minute,
	TF3m:  3 * time.Minute,
	TF5m:  5 * time.Minute,
	TF15m: 15 * time.Minute,
	TF30m: 30 * time.Minute,
	TF1h:  time.Hour,
	TF2h:  2 * time.Hour,
	TF4h:  4 * time.Hour,
	TF6h:  6 * time.Hour,
	TF8h:  8 * time.Hour,
	TF12h: 12 * time.Hour,
	TF1d:  24 * time.Hour,
}

// ParseTimeframe принимает "1m", "1H", "candle1h" и т.п.
func ParseTimeframe(raw string) (Timeframe, error) {
	tf := Timeframe(helper.NormTF(raw))
	if _, ok := timeframes[tf]; !ok {
		return "", fmt.Errorf("unsupported timeframe %q", raw)
	}
	return tf, nil
}

func (tf Timeframe) Duration() time.Duration { return timeframes[tf] }

func (tf Timeframe) Valid() bool {
	_, ok := timeframes[tf]
	return ok
}

func (tf Timeframe) String() string { return string(tf) }
