package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/metrics"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/postgres"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/trm"
)

const metricsService = "fare_store"

type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// TxorDB returns the transaction stored in ctx by trm, or the pool itself.
func TxorDB(ctx context.Context, db *pgxpool.Pool) Querier {
	tx, ok := ctx.Value(trm.TxKey).(pgx.Tx)
	if !ok {
		return db
	}
	return tx
}

// dbError wraps a driver error with the operation name and the log context.
// Connection failures are reported as types.ErrStoreUnavailable.
func dbError(ctx context.Context, op string, err error) error {
	if postgres.IsUnavailable(err) {
		err = errors.Join(types.ErrStoreUnavailable, err)
	}
	ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
	return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
}

// observe records the query metrics. Not found is a successful query.
func observe(op string, start time.Time, err error) {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, types.ErrNotFound) {
		err = nil
	}
	metrics.RecordDatabaseQuery(metricsService, op, err, time.Since(start))
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
