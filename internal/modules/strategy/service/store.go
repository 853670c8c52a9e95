package service

import (
	"fmt"
	"time"

	"band_monitor/internal/models"
)

// BarStore — упорядоченная по времени история свечей одного инструмента.
// Хвост может быть незакрытым, все остальные свечи закрыты.
// Не потокобезопасен: им владеет ровно один координатор.
type BarStore struct {
	bars []models.Bar
}

func NewBarStore() *BarStore {
	return &BarStore{}
}

// Bootstrap заменяет историю целиком. Последняя свеча считается незакрытой.
func (s *BarStore) Bootstrap(bars []models.Bar) error {
	if len(bars) == 0 {
		return fmt.Errorf("%w: no bars", ErrInvalidBootstrap)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].OpenTime.After(bars[i-1].OpenTime) {
			return fmt.Errorf("%w: bar %d (%s) is not after %s", ErrInvalidBootstrap,
				i, bars[i].OpenTime.Format(time.RFC3339), bars[i-1].OpenTime.Format(time.RFC3339))
		}
	}

	out := make([]models.Bar, len(bars))
	copy(out, bars)
	for i := range out {
		out[i].Complete = i < len(out)-1
	}
	s.bars = out
	return nil
}

// Apply вливает апдейт из живого потока.
// completed == true ровно тогда, когда апдейт перевёл свечу из незакрытой в закрытую.
func (s *BarStore) Apply(u models.BarUpdate) (completed bool, err error) {
	if len(s.bars) == 0 {
		return false, fmt.Errorf("%w: store is not bootstrapped", ErrOutOfOrderUpdate)
	}
	tail := &s.bars[len(s.bars)-1]

	switch {
	case u.OpenTime.Equal(tail.OpenTime):
		if tail.Complete && !u.IsFinal {
			// закрытая свеча больше не обновляется
			return false, fmt.Errorf("%w: bar %s already closed", ErrStaleUpdate, u.OpenTime.Format(time.RFC3339))
		}
		wasComplete := tail.Complete
		*tail = u.Bar()
		return !wasComplete && u.IsFinal, nil

	case u.OpenTime.After(tail.OpenTime):
		if !tail.Complete {
			return false, fmt.Errorf("%w: got %s while %s is still open", ErrOutOfOrderUpdate,
				u.OpenTime.Format(time.RFC3339), tail.OpenTime.Format(time.RFC3339))
		}
		s.bars = append(s.bars, u.Bar())
		return u.IsFinal, nil

	default:
		return false, fmt.Errorf("%w: %s is older than tail %s", ErrStaleUpdate,
			u.OpenTime.Format(time.RFC3339), tail.OpenTime.Format(time.RFC3339))
	}
}

// Bars отдаёт копию истории.
func (s *BarStore) Bars() []models.Bar {
	out := make([]models.Bar, len(s.bars))
	copy(out, s.bars)
	return out
}

// Closes — ряд цен закрытия в порядке времени.
func (s *BarStore) Closes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Close
	}
	return out
}

func (s *BarStore) Len() int { return len(s.bars) }

func (s *BarStore) Tail() (models.Bar, bool) {
	if len(s.bars) == 0 {
		return models.Bar{}, false
	}
	return s.bars[len(s.bars)-1], true
}
