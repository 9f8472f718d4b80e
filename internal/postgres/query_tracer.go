package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/flexprice/salestax/internal/logger"
)

// TracedQuerier logs every statement with its duration. Failed statements
// are logged at error level, the rest at debug.
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		txID:    txID,
	}
}

func (tq *TracedQuerier) trace(query string, started time.Time, err error) {
	fields := []interface{}{
		"query", query,
		"duration_ms", time.Since(started).Milliseconds(),
	}
	if tq.txID != "" {
		fields = append(fields, "tx_id", tq.txID)
	}
	if err != nil && err != sql.ErrNoRows {
		tq.logger.Errorw("query failed", append(fields, "error", err)...)
		return
	}
	tq.logger.Debugw("query", fields...)
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	started := time.Now()
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	tq.trace(query, started, err)
	return result, err
}

func (tq *TracedQuerier) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	started := time.Now()
	rows, err := tq.Querier.QueryContext(ctx, query, args...)
	tq.trace(query, started, err)
	return rows, err
}

func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	started := time.Now()
	result, err := tq.Querier.NamedExecContext(ctx, query, arg)
	tq.trace(query, started, err)
	return result, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	started := time.Now()
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	tq.trace(query, started, err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	started := time.Now()
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	tq.trace(query, started, err)
	return err
}
