// Package logger プロセス共通のロガー初期化と取得
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var defaultLogger *zerolog.Logger

// Setup 既定ロガーを初期化する
// 出力先は標準エラー固定。format が "json" 以外ならコンソール形式
func Setup(level, format string) zerolog.Logger {
	return setup(os.Stderr, level, format)
}

func setup(w io.Writer, level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := w
	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	zl := zerolog.New(out).
		With().
		Timestamp().
		Logger().
		Level(ParseLevel(level))

	defaultLogger = &zl
	return zl
}

// L 既定ロガーを返す。未初期化なら環境変数から Setup する
func L() *zerolog.Logger {
	if defaultLogger == nil {
		Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	}
	return defaultLogger
}

// ParseLevel 不明な値は info 扱い
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
