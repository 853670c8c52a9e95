package service

import (
	"testing"

	"band_monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closes(vals ...float64) []models.Bar {
	bars := make([]models.Bar, len(vals))
	for i, v := range vals {
		bars[i] = barAt(i, v)
		bars[i].Complete = true
	}
	return bars
}

func alternating(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i%2)
	}
	return out
}

func TestBands_Defaults(t *testing.T) {
	b := NewBands(BandsConfig{})
	assert.Equal(t, DefaultWindow, b.Window())
	assert.Equal(t, DefaultMultiplier, b.cfg.Multiplier)
}

func TestBands_SeededEMAAndSampleStdDev(t *testing.T) {
	b := NewBands(BandsConfig{Window: 3, Multiplier: 2})
	rows := b.Compute(closes(1, 2, 3, 4))
	require.Len(t, rows, 4)

	assert.False(t, rows[0].Ready)
	assert.False(t, rows[1].Ready)

	assert.True(t, rows[2].Ready)
	assert.InDelta(t, 2.0, rows[2].MA, 1e-12)
	assert.InDelta(t, 1.0, rows[2].StdDev, 1e-12)

	assert.InDelta(t, 3.0, rows[3].MA, 1e-12)
	assert.InDelta(t, 1.0, rows[3].StdDev, 1e-12)
	assert.InDelta(t, 5.0, rows[3].Upper, 1e-12)
	assert.InDelta(t, 1.0, rows[3].Lower, 1e-12)
	assert.Equal(t, models.Neutral, rows[3].Class)
}

func TestBands_UnderflowIsNeutral(t *testing.T) {
	b := NewBands(BandsConfig{Window: 20, Multiplier: 2.5})
	series := append(alternating(18), 1)

	for _, r := range b.Compute(closes(series...)) {
		assert.False(t, r.Ready)
		assert.Equal(t, models.Neutral, r.Class)
		assert.Zero(t, r.MA)
	}
	assert.Equal(t, models.Neutral, b.Latest(nil).Class)
}

func TestBands_ClassifiesBreakouts(t *testing.T) {
	b := NewBands(BandsConfig{Window: 20, Multiplier: 2.5})

	down := b.Latest(closes(append(alternating(20), 80)...))
	require.True(t, down.Ready)
	assert.Equal(t, models.Oversold, down.Class)

	up := b.Latest(closes(append(alternating(20), 120)...))
	require.True(t, up.Ready)
	assert.Equal(t, models.Overbought, up.Class)

	flat := b.Latest(closes(append(alternating(20), 100.5)...))
	require.True(t, flat.Ready)
	assert.Equal(t, models.Neutral, flat.Class)
}

func TestBands_IsIdempotent(t *testing.T) {
	b := NewBands(BandsConfig{Window: 20, Multiplier: 2.5})
	series := closes(append(alternating(40), 97.3, 103.1, 88.8)...)

	first := b.Compute(series)
	second := b.Compute(series)
	assert.Equal(t, first, second)
	assert.Equal(t, first[len(first)-1], b.Latest(series))
}

func TestClassify_InclusiveBoundaries(t *testing.T) {
	assert.Equal(t, models.Oversold, Classify(1, 1, 5))
	assert.Equal(t, models.Overbought, Classify(5, 1, 5))
	assert.Equal(t, models.Neutral, Classify(3, 1, 5))
	assert.Equal(t, models.Oversold, Classify(0.5, 1, 5))
	assert.Equal(t, models.Overbought, Classify(7, 1, 5))
}

func TestBands_ZeroVolatilityTouchesUpperBand(t *testing.T) {
	b := NewBands(BandsConfig{Window: 5, Multiplier: 2.5})
	r := b.Latest(closes(10, 10, 10, 10, 10))

	require.True(t, r.Ready)
	assert.Equal(t, r.Upper, r.Close)
	assert.Equal(t, r.Lower, r.Close)
	assert.Equal(t, models.Overbought, r.Class)
	assert.Equal(t, models.Overbought, Classify(10, 10, 10))
}
