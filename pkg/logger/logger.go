package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/zurustar/ipp-parse/pkg/status"
)

var globalLogger *slog.Logger

// ParseLevel ログレベル名をslog.Levelに変換する
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, status.Newf(status.ArgumentError, "invalid log level: %s", level)
}

// InitLogger ログレベルに応じてslogを初期化
// 標準出力はXML文書に使うため、ログは必ずwに出す（通常は標準エラー出力）
func InitLogger(level string, w io.Writer) error {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return err
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slogLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	return nil
}

// GetLogger グローバルロガーを取得
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		// デフォルトロガーを返す
		return slog.Default()
	}
	return globalLogger
}
