package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

var _ gormlogger.Interface = (*GormLogger)(nil)

func observed(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func stmt(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestNewGormLogger_Options(t *testing.T) {
	l, _ := observed(gormlogger.Info)
	assert.Equal(t, 200*time.Millisecond, l.slowThreshold)
	assert.True(t, l.ignoreRecordNotFoundError)
	assert.True(t, l.parameterized)

	l, _ = observed(gormlogger.Info, WithSlowThreshold(time.Second), WithIgnoreRecordNotFoundError(false))
	assert.Equal(t, time.Second, l.slowThreshold)
	assert.False(t, l.ignoreRecordNotFoundError)

	warn := l.LogMode(gormlogger.Warn).(*GormLogger)
	assert.Equal(t, gormlogger.Warn, warn.logLevel)
	assert.Equal(t, gormlogger.Info, l.logLevel)
}

func TestGormLogger_Printf(t *testing.T) {
	ctx := context.Background()

	l, recorded := observed(gormlogger.Warn)
	l.Info(ctx, "migrating %s", "products")
	l.Warn(ctx, "pool at %d%%", 90)
	l.Error(ctx, "lost connection")

	logs := recorded.All()
	require.Len(t, logs, 2)
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	assert.Equal(t, "pool at 90%", logs[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs[1].Level)
}

func TestGormLogger_Trace(t *testing.T) {
	oneSecondAgo := time.Now().Add(-time.Second)

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		begin   time.Time
		err     error
		message string
		zap     zapcore.Level
	}{
		{"failure", gormlogger.Error, nil, time.Now(), errors.New("deadlock detected"), "SQL Error", zapcore.ErrorLevel},
		{"missing row skipped", gormlogger.Error, nil, time.Now(), gormlogger.ErrRecordNotFound, "", 0},
		{"missing row kept", gormlogger.Error, []GormLoggerOption{WithIgnoreRecordNotFoundError(false)}, time.Now(), gormlogger.ErrRecordNotFound, "SQL Error", zapcore.ErrorLevel},
		{"slow", gormlogger.Warn, []GormLoggerOption{WithSlowThreshold(time.Millisecond)}, oneSecondAgo, nil, "Slow SQL", zapcore.WarnLevel},
		{"fast in warn mode", gormlogger.Warn, nil, time.Now(), nil, "", 0},
		{"info mode", gormlogger.Info, nil, time.Now(), nil, "SQL Query", zapcore.DebugLevel},
		{"silent", gormlogger.Silent, nil, oneSecondAgo, errors.New("boom"), "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, recorded := observed(tt.level, tt.opts...)
			l.Trace(context.Background(), tt.begin, stmt("UPDATE products SET stock = stock - 1", 1), tt.err)

			if tt.message == "" {
				assert.Empty(t, recorded.All())
				return
			}
			logs := recorded.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.message, logs[0].Message)
			assert.Equal(t, tt.zap, logs[0].Level)
			assert.Equal(t, int64(1), logs[0].ContextMap()["rows"])
		})
	}
}

func TestGormLogger_TraceCarriesCaller(t *testing.T) {
	l, recorded := observed(gormlogger.Info)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "user-1")

	l.Trace(ctx, time.Now(), stmt("SELECT * FROM carts WHERE customer_id = $1", 1), nil)

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-1", fields["user_id"])
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	ctx := context.Background()
	query := "SELECT * FROM users WHERE email = ?"

	l, _ := observed(gormlogger.Info)
	sql, params := l.ParamsFilter(ctx, query, "claire@example.com")
	assert.Equal(t, query, sql)
	assert.Nil(t, params)

	l, _ = observed(gormlogger.Info, WithParameterizedQueries(false))
	_, params = l.ParamsFilter(ctx, query, "claire@example.com")
	assert.Equal(t, []any{"claire@example.com"}, params)
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"WARN":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"debug":   gormlogger.Info,
		"verbose": gormlogger.Warn,
		"":        gormlogger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, MapGormLogLevel(in), in)
	}
}
