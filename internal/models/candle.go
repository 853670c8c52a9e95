package models

import "time"

// Bar — одна свеча OHLCV. OpenTime уникален в пределах хранилища.
type Bar struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Complete bool
}

// BarUpdate — то, что присылает живой поток (kline/candle push).
type BarUpdate struct {
	EventTime time.Time
	OpenTime  time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	IsFinal   bool
}

func (u BarUpdate) Bar() Bar {
	return Bar{
		OpenTime: u.OpenTime,
		Open:     u.Open,
		High:     u.High,
		Low:      u.Low,
		Close:    u.Close,
		Volume:   u.Volume,
		Complete: u.IsFinal,
	}
}
