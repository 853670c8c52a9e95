package service

import (
	"context"
	"fmt"

	"band_monitor/internal/models"
	"band_monitor/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

const schema = `
CREATE TABLE IF NOT EXISTS signal_journal (
	id         BIGSERIAL PRIMARY KEY,
	symbol     TEXT             NOT NULL,
	timeframe  TEXT             NOT NULL,
	action     TEXT             NOT NULL,
	open_time  TIMESTAMPTZ      NOT NULL,
	close      DOUBLE PRECISION NOT NULL,
	payload    JSONB            NOT NULL,
	sent_at    TIMESTAMPTZ      NOT NULL
)`

const insertEvent = `
INSERT INTO signal_journal (symbol, timeframe, action, open_time, close, payload, sent_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// PG — журнал отправленных сигналов. Только запись: состояние из него не восстанавливается.
type PG struct {
	db db.TxManager
}

func NewPG(tx db.TxManager) *PG {
	return &PG{db: tx}
}

func (j *PG) EnsureSchema(ctx context.Context) error {
	return j.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, schema)
		return err
	})
}

func (j *PG) Record(ctx context.Context, ev models.SignalEvent) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("journal.Record: %w", err)
		}
	}()

	payload, err := sonic.Marshal(ev)
	if err != nil {
		return err
	}
	return j.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, insertEvent,
			ev.Symbol, string(ev.Timeframe), string(ev.Action), ev.OpenTime, ev.Close, payload, ev.SentAt)
		return err
	})
}

// Nop — журнал выключен.
type Nop struct{}

func (Nop) Record(context.Context, models.SignalEvent) error { return nil }
