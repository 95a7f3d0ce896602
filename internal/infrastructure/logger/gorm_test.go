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

func observedGormLogger(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), recorded
}

func TestGormLogger_TraceLogsQuery(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM raw_materials WHERE status = ?", 3
	}, nil)

	entries := recorded.FilterMessage("SQL Query").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "SELECT * FROM raw_materials WHERE status = ?", fields["sql"])
	assert.Equal(t, int64(3), fields["rows"])
}

func TestGormLogger_TraceFlagsSlowQuery(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Warn)

	begin := time.Now().Add(-time.Second)
	gl.Trace(context.Background(), begin, func() (string, int64) {
		return "SELECT * FROM production_batches", 100
	}, nil)

	slow := recorded.FilterMessageSnippet("SLOW SQL").All()
	require.Len(t, slow, 1)
	assert.Equal(t, zapcore.WarnLevel, slow[0].Level)
}

func TestGormLogger_TraceLogsError(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO sales_orders", 0
	}, errors.New("UNIQUE constraint failed"))

	entries := recorded.FilterMessage("SQL Error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestGormLogger_TraceDropsNotFound(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM products WHERE id = ?", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Zero(t, recorded.Len())
}

func TestGormLogger_SilentSkipsEverything(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT 1", 1
	}, errors.New("boom"))
	gl.Info(context.Background(), "ignored")
	gl.Warn(context.Background(), "ignored")
	gl.Error(context.Background(), "ignored")

	assert.Zero(t, recorded.Len())
}

func TestGormLogger_TraceCarriesRequestID(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Info)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-41")
	gl.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM notifications", 2
	}, nil)

	entries := recorded.FilterMessage("SQL Query").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-41", entries[0].ContextMap()["request_id"])
}

func TestGormLogger_LogModeReturnsIndependentCopy(t *testing.T) {
	gl, recorded := observedGormLogger(gormlogger.Silent)

	verbose := gl.LogMode(gormlogger.Info)
	verbose.Info(context.Background(), "migration step %d", 1)

	require.Equal(t, 1, recorded.Len())

	// the original keeps its level
	gl.Info(context.Background(), "still silent")
	assert.Equal(t, 1, recorded.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything-else"))
}
