package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dbStartKey = "telemetry:started_at"

// DBConfig controls database instrumentation
type DBConfig struct {
	TraceEnabled       bool
	LogFullSQL         bool
	SlowQueryThreshold time.Duration
}

// InstrumentDB adds otelgorm spans, query count and latency metrics, slow
// query logging and connection pool gauges to db.
func InstrumentDB(db *gorm.DB, meter metric.Meter, cfg DBConfig, logger *zap.Logger) error {
	if cfg.TraceEnabled {
		opts := []otelgorm.Option{otelgorm.WithDBName("postgres")}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return fmt.Errorf("register otelgorm: %w", err)
		}
	}

	p, err := newQueryMetrics(meter, cfg.SlowQueryThreshold, logger)
	if err != nil {
		return err
	}
	if err := p.register(db); err != nil {
		return err
	}
	return registerPoolGauges(db, meter)
}

type queryMetrics struct {
	total    *Counter
	slow     *Counter
	duration *Histogram
	slowAt   time.Duration
	logger   *zap.Logger
}

func newQueryMetrics(meter metric.Meter, slowAt time.Duration, logger *zap.Logger) (*queryMetrics, error) {
	if slowAt <= 0 {
		slowAt = 200 * time.Millisecond
	}
	total, err := NewCounter(meter, "db_query_total", "Database queries by operation", "{query}")
	if err != nil {
		return nil, err
	}
	slow, err := NewCounter(meter, "db_slow_query_total", "Database queries slower than the threshold", "{query}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &queryMetrics{total: total, slow: slow, duration: duration, slowAt: slowAt, logger: logger}, nil
}

func (q *queryMetrics) register(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, h := range hooks {
		op := h.op
		if err := h.before("telemetry:before_"+op, func(tx *gorm.DB) {
			tx.InstanceSet(dbStartKey, time.Now())
		}); err != nil {
			return err
		}
		if err := h.after("telemetry:after_"+op, func(tx *gorm.DB) { q.observe(tx, op) }); err != nil {
			return err
		}
	}
	return nil
}

func (q *queryMetrics) observe(tx *gorm.DB, op string) {
	v, ok := tx.InstanceGet(dbStartKey)
	if !ok {
		return
	}
	started, ok := v.(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(started)
	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	table := tx.Statement.Table

	q.total.Inc(ctx, AttrDBOperation.String(op), AttrDBTable.String(table))
	q.duration.RecordDuration(ctx, elapsed, AttrDBOperation.String(op), AttrDBTable.String(table))
	if elapsed >= q.slowAt {
		q.slow.Inc(ctx, AttrDBOperation.String(op), AttrDBTable.String(table))
		q.logger.Warn("Slow query",
			zap.String("operation", op),
			zap.String("table", table),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", tx.RowsAffected),
		)
	}
}

func registerPoolGauges(db *gorm.DB, meter metric.Meter) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for"),
		metric.WithUnit("{wait}"))
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sqlDB.Stats()
		o.ObserveInt64(conns, int64(s.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(conns, int64(s.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(s.MaxOpenConnections), metric.WithAttributes(AttrDBState.String("max")))
		o.ObserveInt64(waits, s.WaitCount)
		return nil
	}, conns, waits)
	return err
}
