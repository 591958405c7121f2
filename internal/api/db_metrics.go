package api

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/appforum/forum-server/app/observability/metrics"
)

// NewInstrumentedDB wraps a DB so that every Query/QueryRow/Exec records its
// duration and failures into the application metric instruments. All
// repositories go through this wrapper in production; with a nil metrics
// instance (unit tests) the inner DB is returned unchanged.
func NewInstrumentedDB(db DB, m *metrics.AppMetrics) DB {
	if m == nil {
		return db
	}
	return &instrumentedDB{db: db, metrics: m}
}

type instrumentedDB struct {
	db      DB
	metrics *metrics.AppMetrics
}

func (d *instrumentedDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := d.db.Query(ctx, sql, args...)
	d.record(ctx, "query", start, err)
	return rows, err
}

func (d *instrumentedDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	// QueryRow defers execution until Scan, so timing stops there.
	return &instrumentedRow{
		row:   d.db.QueryRow(ctx, sql, args...),
		db:    d,
		ctx:   ctx,
		start: time.Now(),
	}
}

func (d *instrumentedDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	tag, err := d.db.Exec(ctx, sql, args...)
	d.record(ctx, "exec", start, err)
	return tag, err
}

// record notes the elapsed time for every call and counts genuine failures.
// pgx.ErrNoRows is a lookup miss, not a database error.
func (d *instrumentedDB) record(ctx context.Context, op string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("operation", op))
	d.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		d.metrics.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

type instrumentedRow struct {
	row   pgx.Row
	db    *instrumentedDB
	ctx   context.Context
	start time.Time
}

func (r *instrumentedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.db.record(r.ctx, "query_row", r.start, err)
	return err
}
