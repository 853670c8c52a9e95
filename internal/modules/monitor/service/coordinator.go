package service

import (
	"context"
	"fmt"
	"time"

	"band_monitor/internal/metrics"
	"band_monitor/internal/models"
	strategy "band_monitor/internal/modules/strategy/service"
	"band_monitor/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Deps struct {
	History  HistoryProvider
	Feed     UpdateFeed
	Notifier Notifier
	Journal  Journal // nil — журнал выключен
	Status   Status  // nil — без health
	Bands    *strategy.Bands
	Metrics  *metrics.Metrics
	Log      *zap.Logger
	Now      func() time.Time
}

// Coordinator — прогрев истории, подписка на поток и обработка апдейтов по одному.
// Хранилище, полосы и автомат трогает только горутина Run.
type Coordinator struct {
	s Settings

	history  HistoryProvider
	feed     UpdateFeed
	notifier Notifier
	journal  Journal
	status   Status
	bands    *strategy.Bands
	m        *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time

	store   *strategy.BarStore
	machine *strategy.Machine
}

func NewCoordinator(s Settings, d Deps) (*Coordinator, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if d.History == nil || d.Feed == nil || d.Notifier == nil {
		return nil, errors.New("monitor: history, feed and notifier are required")
	}
	if d.Bands == nil {
		d.Bands = strategy.NewBands(strategy.BandsConfig{})
	}
	if d.Metrics == nil {
		return nil, errors.New("monitor: metrics are required")
	}
	if d.Journal == nil {
		d.Journal = nopJournal{}
	}
	if d.Status == nil {
		d.Status = nopStatus{}
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	c := &Coordinator{
		s:        s,
		history:  d.History,
		feed:     d.Feed,
		notifier: d.Notifier,
		journal:  d.Journal,
		status:   d.Status,
		bands:    d.Bands,
		m:        d.Metrics,
		log: d.Log.With(
			zap.String("symbol", s.Symbol),
			zap.String("tf", s.Timeframe.String()),
		),
		now:     d.Now,
		store:   strategy.NewBarStore(),
		machine: strategy.NewMachine(s.Position),
	}
	c.status.SetPosition(s.Position)
	c.m.Position.Set(float64(s.Position))
	return c, nil
}

func (c *Coordinator) Position() models.Position { return c.machine.Position() }

// Run блокирует до отмены ctx (nil) или фатальной ошибки.
// Подписка открывается только после успешного прогрева и закрывается перед выходом.
func (c *Coordinator) Run(ctx context.Context) error {
	if err := c.Bootstrap(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	updates, err := c.feed.Subscribe(runCtx, c.s.Symbol, c.s.Timeframe)
	if err != nil {
		cancel()
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe: %w", err)
	}
	defer func() {
		cancel()
		for range updates {
		}
		c.status.SetReady(false)
		c.log.Info("subscription closed", zap.String("position", c.machine.Position().String()))
	}()

	c.status.SetReady(true)
	c.log.Info("monitoring started", zap.String("position", c.machine.Position().String()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrFeedClosed
			}
			if err := c.Handle(runCtx, u); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// Bootstrap грузит историю с now-lookback и заменяет ею хранилище.
func (c *Coordinator) Bootstrap(ctx context.Context) error {
	start := c.now().UTC().Add(-c.s.Lookback)
	bars, err := c.history.FetchBars(ctx, c.s.Symbol, c.s.Timeframe, start, c.s.HistoryLimit)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}
	if err := c.store.Bootstrap(bars); err != nil {
		return err
	}

	last := c.bands.Latest(c.store.Bars())
	c.log.Info("history loaded",
		zap.Int("bars", c.store.Len()),
		zap.Time("from", bars[0].OpenTime),
		zap.Time("to", bars[len(bars)-1].OpenTime),
		zap.Stringer("last", last),
	)
	if c.store.Len() < c.bands.Window() {
		c.log.Warn("not enough history, signals stay neutral until warmup",
			zap.Int("bars", c.store.Len()),
			zap.Int("window", c.bands.Window()),
		)
	}
	return nil
}

// Handle — один апдейт из потока. Устаревшие апдейты пропускаются,
// остальные ошибки фатальны для прогона.
func (c *Coordinator) Handle(ctx context.Context, u models.BarUpdate) error {
	c.m.UpdatesTotal.Inc()
	c.status.TouchTick(c.now())
	c.log.Debug("update",
		zap.Time("open_time", u.OpenTime),
		zap.Float64("close", u.Close),
		zap.Bool("final", u.IsFinal),
	)

	completed, err := c.store.Apply(u)
	switch {
	case errors.Is(err, strategy.ErrStaleUpdate):
		c.m.StaleUpdatesTotal.Inc()
		c.log.Warn("stale update skipped", zap.Error(err))
		return nil
	case err != nil:
		return err
	}
	if !completed {
		return nil
	}
	return c.onBarCompleted(ctx)
}

func (c *Coordinator) onBarCompleted(ctx context.Context) error {
	span, ctx := tracing.StartSpan(ctx, "monitor.bar_completed", opentracing.Tags{
		"symbol": c.s.Symbol,
		"tf":     c.s.Timeframe.String(),
	})
	defer span.Finish()

	c.m.BarsCompletedTotal.Inc()

	started := time.Now()
	row := c.bands.Latest(c.store.Bars())
	c.m.IndicatorDur.Observe(time.Since(started).Seconds())

	c.log.Info("bar closed",
		zap.Time("open_time", row.OpenTime),
		zap.Stringer("row", row),
	)

	t := c.machine.Decide(row.Class)
	span.SetTag("class", row.Class.String())
	if !t.Fired() {
		return nil
	}

	text := c.s.Message(t.Action)
	if err := c.notify(ctx, text); err != nil {
		span.SetTag("error", true)
		return fmt.Errorf("%w: %s for %s: %w", ErrNotificationFailure, t.Action, c.s.Symbol, err)
	}

	c.machine.Commit(t)
	c.m.SignalsTotal.WithLabelValues(string(t.Action)).Inc()
	c.m.Position.Set(float64(t.To))
	c.status.SetPosition(t.To)
	c.status.SetLastSignal(t.Action)
	c.log.Info("signal sent",
		zap.String("action", string(t.Action)),
		zap.String("position", t.To.String()),
		zap.Float64("close", row.Close),
	)

	ev := models.SignalEvent{
		Symbol:    c.s.Symbol,
		Timeframe: c.s.Timeframe,
		Action:    t.Action,
		Class:     row.Class,
		OpenTime:  row.OpenTime,
		Close:     row.Close,
		MA:        row.MA,
		StdDev:    row.StdDev,
		Upper:     row.Upper,
		Lower:     row.Lower,
		Message:   text,
		SentAt:    c.now().UTC(),
	}
	if err := c.journal.Record(ctx, ev); err != nil {
		// журнал вспомогательный, сигнал уже доставлен
		c.log.Error("journal record failed", zap.Error(err))
	}
	return nil
}

// notify: первая попытка + Retries повторов через RetryDelay.
func (c *Coordinator) notify(ctx context.Context, text string) error {
	var err error
	for attempt := 0; attempt <= c.s.Retries; attempt++ {
		if attempt > 0 && !sleepCtx(ctx, c.s.RetryDelay) {
			return ctx.Err()
		}

		span, sctx := tracing.StartSpan(ctx, "monitor.notify", opentracing.Tags{"attempt": attempt})
		err = c.notifier.Notify(sctx, text)
		span.Finish()
		if err == nil {
			return nil
		}

		c.m.NotifyFailures.Inc()
		c.log.Warn("notify failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return err
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
