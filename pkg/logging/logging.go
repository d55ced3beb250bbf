// Package logging 提供基于 log/slog 的日志初始化：服务端用 text/json，命令行用简洁的 CLI 输出。
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// 日志格式
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCLI  = "cli"
)

// ParseLogLevel 把字符串转为 slog.Level，无法识别时返回 Info。
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger 按级别和格式创建 logger，未知格式按 text 处理。
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	lvl := ParseLogLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(format) {
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	case FormatCLI:
		h = NewCLIHandler(w, lvl)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// SetDefault 创建 logger 并设置为 slog 默认 logger
func SetDefault(level, format string, w io.Writer) *slog.Logger {
	logger := NewLogger(level, format, w)
	slog.SetDefault(logger)
	return logger
}
