package service

import (
	"context"
	"time"

	"band_monitor/internal/models"
)

// HistoryProvider — история свечей по возрастанию OpenTime, последняя может быть незакрытой.
type HistoryProvider interface {
	FetchBars(ctx context.Context, instrument string, tf models.Timeframe, start time.Time, limit int) ([]models.Bar, error)
}

// UpdateFeed — живой поток апдейтов. Канал закрывается после отмены ctx.
type UpdateFeed interface {
	Subscribe(ctx context.Context, instrument string, tf models.Timeframe) (<-chan models.BarUpdate, error)
}

type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type Journal interface {
	Record(ctx context.Context, ev models.SignalEvent) error
}

// Status — то, что координатор сообщает наружу (health).
type Status interface {
	SetReady(v bool)
	TouchTick(t time.Time)
	SetPosition(p models.Position)
	SetLastSignal(a models.Action)
}

type nopStatus struct{}

func (nopStatus) SetReady(bool)               {}
func (nopStatus) TouchTick(time.Time)         {}
func (nopStatus) SetPosition(models.Position) {}
func (nopStatus) SetLastSignal(models.Action) {}

type nopJournal struct{}

func (nopJournal) Record(context.Context, models.SignalEvent) error { return nil }
