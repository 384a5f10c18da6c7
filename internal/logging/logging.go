// Package logging 构造 zerolog 日志器
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel 解析日志级别，未知时为 info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "DISABLED", "OFF":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New 控制台格式输出到 w
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(ParseLevel(level)).
		With().Timestamp().Logger()
}

// NewWithFile 同时写控制台（彩色）和日志文件（无颜色），返回的 Closer 关闭文件
func NewWithFile(console io.Writer, path, level string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return New(console, level), nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return New(console, level), nopCloser{}, fmt.Errorf("open log file: %w", err)
	}

	mlw := zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339},
		zerolog.ConsoleWriter{Out: file, TimeFormat: time.RFC3339, NoColor: true},
	)
	log := zerolog.New(mlw).Level(ParseLevel(level)).With().Timestamp().Logger()
	return log, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
