package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	zl := setup(&buf, "warn", "json")

	zl.Info().Msg("hidden")
	zl.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
	assert.Same(t, defaultLogger, L())
}

func TestSetupConsole(t *testing.T) {
	var buf bytes.Buffer
	zl := setup(&buf, "info", "console")
	zl.Info().Str("level_name", "city").Msg("loaded")

	assert.Contains(t, buf.String(), "loaded")
	assert.Contains(t, buf.String(), "level_name=city")
}

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	gl := NewGormLogger(zerolog.New(&buf).Level(zerolog.DebugLevel), 50*time.Millisecond)
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT * FROM cities", 3 }

	t.Run("通常のクエリは debug", func(t *testing.T) {
		buf.Reset()
		gl.Trace(ctx, time.Now(), query, nil)
		assert.Contains(t, buf.String(), `"level":"debug"`)
		assert.Contains(t, buf.String(), "SELECT * FROM cities")
	})

	t.Run("スロークエリは warn", func(t *testing.T) {
		buf.Reset()
		gl.Trace(ctx, time.Now().Add(-time.Second), query, nil)
		assert.Contains(t, buf.String(), `"level":"warn"`)
	})

	t.Run("エラーは error", func(t *testing.T) {
		buf.Reset()
		gl.Trace(ctx, time.Now(), query, errors.New("boom"))
		assert.Contains(t, buf.String(), `"level":"error"`)
		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("レコードなしはエラー扱いしない", func(t *testing.T) {
		buf.Reset()
		gl.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
		assert.NotContains(t, buf.String(), `"level":"error"`)
	})

	t.Run("Silent では何も出さない", func(t *testing.T) {
		buf.Reset()
		gl.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), query, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}

func TestGormLoggerLogModeDoesNotMutate(t *testing.T) {
	var buf bytes.Buffer
	gl := NewGormLogger(zerolog.New(&buf), 0)

	quiet := gl.LogMode(gormlogger.Error)
	quiet.Info(context.Background(), "hello %s", "world")
	assert.Empty(t, buf.String())

	gl.Info(context.Background(), "hello %s", "world")
	assert.Contains(t, buf.String(), "hello world")
}
