package service

import (
	"fmt"
	"math"
	"time"

	"band_monitor/internal/models"
)

const (
	DefaultWindow     = 20
	DefaultMultiplier = 2.5
)

type BandsConfig struct {
	Window     int     // N: окно EMA и стандартного отклонения
	Multiplier float64 // k: ширина полос в сигмах
}

// Row — расчёт по одной свече. Ready == false, пока истории меньше Window.
type Row struct {
	OpenTime time.Time
	Close    float64
	MA       float64
	StdDev   float64
	Upper    float64
	Lower    float64
	Ready    bool
	Class    models.Classification
}

func (r Row) String() string {
	if !r.Ready {
		return fmt.Sprintf("close=%.6f (warmup)", r.Close)
	}
	return fmt.Sprintf("close=%.6f ma=%.6f std=%.6f lower=%.6f upper=%.6f class=%s",
		r.Close, r.MA, r.StdDev, r.Lower, r.Upper, r.Class)
}

// Bands — полосы волатильности: EMA(N) ± k·stdev(N) по ценам закрытия.
// Чистая функция от ряда: никакого накопленного состояния между вызовами.
type Bands struct {
	cfg BandsConfig
}

func NewBands(cfg BandsConfig) *Bands {
	if cfg.Window <= 1 {
		cfg.Window = DefaultWindow
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = DefaultMultiplier
	}
	return &Bands{cfg: cfg}
}

func (b *Bands) Window() int { return b.cfg.Window }

// Compute пересчитывает весь ряд с нуля.
func (b *Bands) Compute(bars []models.Bar) []Row {
	n := b.cfg.Window
	rows := make([]Row, len(bars))
	ema := newEMA(n)

	for i, bar := range bars {
		ema.Update(bar.Close)
		rows[i] = Row{OpenTime: bar.OpenTime, Close: bar.Close, Class: models.Neutral}
		if !ema.Ready() {
			continue
		}

		std := sampleStdDev(bars[i+1-n : i+1])
		ma := ema.Value()
		rows[i].MA = ma
		rows[i].StdDev = std
		rows[i].Upper = ma + b.cfg.Multiplier*std
		rows[i].Lower = ma - b.cfg.Multiplier*std
		rows[i].Ready = true
		rows[i].Class = Classify(bar.Close, rows[i].Lower, rows[i].Upper)
	}
	return rows
}

// Latest — строка по последней свече ряда.
func (b *Bands) Latest(bars []models.Bar) Row {
	rows := b.Compute(bars)
	if len(rows) == 0 {
		return Row{Class: models.Neutral}
	}
	return rows[len(rows)-1]
}

// Classify: касание полосы считается её пробоем (<=, >=).
// При нулевой волатильности close == lower == upper, побеждает верхняя полоса.
func Classify(close, lower, upper float64) models.Classification {
	switch {
	case close >= upper:
		return models.Overbought
	case close <= lower:
		return models.Oversold
	default:
		return models.Neutral
	}
}

// sampleStdDev — выборочное отклонение (делитель n-1) в два прохода.
func sampleStdDev(window []models.Bar) float64 {
	if len(window) < 2 {
		return 0
	}
	var sum float64
	for _, b := range window {
		sum += b.Close
	}
	mean := sum / float64(len(window))

	var sq float64
	for _, b := range window {
		d := b.Close - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(window)-1))
}
