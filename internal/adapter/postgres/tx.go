package postgres

import (
	"context"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/pkg/metrics"
	"github.com/Temutjin2k/studylens-dashboard/pkg/trm"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// TxorDB returns the transaction carried by ctx, or the pool.
func TxorDB(ctx context.Context, db *pgxpool.Pool) Querier {
	if tx, ok := trm.TxFromContext(ctx); ok {
		return tx
	}
	return db
}

// observe records the outcome of one repository call.
func observe(operation string, start time.Time, err error) {
	metrics.RecordDatabaseQuery(operation, err, time.Since(start))
}
