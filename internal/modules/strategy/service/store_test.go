package service

import (
	"testing"
	"time"

	"band_monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func barAt(i int, close float64) models.Bar {
	return models.Bar{
		OpenTime: t0.Add(time.Duration(i) * time.Minute),
		Open:     close,
		High:     close + 1,
		Low:      close - 1,
		Close:    close,
		Volume:   10,
	}
}

func updAt(i int, close float64, final bool) models.BarUpdate {
	b := barAt(i, close)
	return models.BarUpdate{
		EventTime: b.OpenTime.Add(30 * time.Second),
		OpenTime:  b.OpenTime,
		Open:      b.Open,
		High:      b.High,
		Low:       b.Low,
		Close:     b.Close,
		Volume:    b.Volume,
		IsFinal:   final,
	}
}

func bootstrapped(t *testing.T, n int) *BarStore {
	t.Helper()
	bars := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, barAt(i, 100))
	}
	s := NewBarStore()
	require.NoError(t, s.Bootstrap(bars))
	return s
}

func TestBarStore_BootstrapMarksOnlyTailIncomplete(t *testing.T) {
	for _, n := range []int{1, 2, 5, 30} {
		s := bootstrapped(t, n)
		bars := s.Bars()
		require.Len(t, bars, n)
		for i, b := range bars {
			assert.Equal(t, i < n-1, b.Complete, "n=%d bar=%d", n, i)
		}
	}
}

func TestBarStore_BootstrapIgnoresIncomingCompleteFlags(t *testing.T) {
	in := []models.Bar{barAt(0, 1), barAt(1, 2)}
	in[1].Complete = true

	s := NewBarStore()
	require.NoError(t, s.Bootstrap(in))

	tail, ok := s.Tail()
	require.True(t, ok)
	assert.False(t, tail.Complete)
	assert.True(t, in[1].Complete, "input must not be mutated")
}

func TestBarStore_BootstrapRejectsBadInput(t *testing.T) {
	s := NewBarStore()
	require.ErrorIs(t, s.Bootstrap(nil), ErrInvalidBootstrap)

	require.ErrorIs(t, s.Bootstrap([]models.Bar{barAt(1, 1), barAt(0, 1)}), ErrInvalidBootstrap)
	require.ErrorIs(t, s.Bootstrap([]models.Bar{barAt(0, 1), barAt(0, 2)}), ErrInvalidBootstrap)
	assert.Zero(t, s.Len())
}

func TestBarStore_NonFinalUpdateRefreshesTail(t *testing.T) {
	s := bootstrapped(t, 3)

	completed, err := s.Apply(updAt(2, 105, false))
	require.NoError(t, err)
	assert.False(t, completed)

	tail, _ := s.Tail()
	assert.Equal(t, 105.0, tail.Close)
	assert.False(t, tail.Complete)
	assert.Equal(t, 3, s.Len())
}

func TestBarStore_FinalUpdateCompletesTail(t *testing.T) {
	s := bootstrapped(t, 3)

	completed, err := s.Apply(updAt(2, 99, true))
	require.NoError(t, err)
	assert.True(t, completed)

	// повтор финального апдейта не закрывает свечу второй раз
	completed, err = s.Apply(updAt(2, 98, true))
	require.NoError(t, err)
	assert.False(t, completed)
	tail, _ := s.Tail()
	assert.Equal(t, 98.0, tail.Close)
}

func TestBarStore_AppendAfterClosedTail(t *testing.T) {
	s := bootstrapped(t, 3)
	_, err := s.Apply(updAt(2, 100, true))
	require.NoError(t, err)

	completed, err := s.Apply(updAt(3, 101, false))
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, 4, s.Len())

	completed, err = s.Apply(updAt(3, 102, true))
	require.NoError(t, err)
	assert.True(t, completed)

	// новая свеча сразу финальной — тоже закрытие
	completed, err = s.Apply(updAt(4, 103, true))
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, 5, s.Len())
}

func TestBarStore_NewBarBeforeTailClosedIsOutOfOrder(t *testing.T) {
	s := bootstrapped(t, 3)

	_, err := s.Apply(updAt(3, 101, false))
	require.ErrorIs(t, err, ErrOutOfOrderUpdate)
	assert.Equal(t, 3, s.Len())
}

func TestBarStore_StaleUpdateLeavesStoreUnchanged(t *testing.T) {
	s := bootstrapped(t, 5)
	before := s.Bars()

	_, err := s.Apply(updAt(1, 42, true))
	require.ErrorIs(t, err, ErrStaleUpdate)
	assert.Equal(t, before, s.Bars())
}

func TestBarStore_ClosedTailRejectsNonFinalUpdate(t *testing.T) {
	s := bootstrapped(t, 2)
	_, err := s.Apply(updAt(1, 100, true))
	require.NoError(t, err)
	before := s.Bars()

	_, err = s.Apply(updAt(1, 50, false))
	require.ErrorIs(t, err, ErrStaleUpdate)
	assert.Equal(t, before, s.Bars())
}

func TestBarStore_ApplyBeforeBootstrap(t *testing.T) {
	_, err := NewBarStore().Apply(updAt(0, 1, true))
	require.ErrorIs(t, err, ErrOutOfOrderUpdate)
}

func TestBarStore_TimestampsStayStrictlyIncreasing(t *testing.T) {
	s := bootstrapped(t, 2)
	seq := []models.BarUpdate{
		updAt(1, 100, false),
		updAt(1, 101, true),
		updAt(0, 1, true), // stale
		updAt(2, 102, false),
		updAt(2, 103, false),
		updAt(3, 104, false), // out of order
		updAt(2, 105, true),
		updAt(2, 106, true),
		updAt(3, 107, true),
		updAt(4, 108, false),
	}
	for _, u := range seq {
		_, _ = s.Apply(u)

		bars := s.Bars()
		incomplete := 0
		for i := range bars {
			if i > 0 {
				require.True(t, bars[i].OpenTime.After(bars[i-1].OpenTime))
			}
			if !bars[i].Complete {
				incomplete++
				require.Equal(t, len(bars)-1, i, "only the tail may be open")
			}
		}
		require.LessOrEqual(t, incomplete, 1)
	}
	assert.Equal(t, 5, s.Len())
}

func TestBarStore_Closes(t *testing.T) {
	s := NewBarStore()
	assert.Empty(t, s.Closes())

	require.NoError(t, s.Bootstrap([]models.Bar{barAt(0, 10), barAt(1, 11), barAt(2, 12)}))
	_, err := s.Apply(updAt(2, 12.5, true))
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 11, 12.5}, s.Closes())
}
