package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel переводит LOG_LEVEL в уровень slog. Неизвестное значение = info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "critical":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New открывает файл лога на дозапись и возвращает логгер.
// Если файл открыть нельзя, пишет в stderr: stdout занят транспортом MCP.
func New(level, path string) (*slog.Logger, io.Closer) {
	var levelVar slog.LevelVar
	levelVar.Set(ParseLevel(level))

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if strings.TrimSpace(path) != "" {
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G302 G304 - путь из конфигурации
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s. Logging switched to stderr.\n", err)
		} else {
			w = file
			closer = file
		}
	}

	return NewWithWriter(w, &levelVar), closer
}

// NewWithWriter логгер поверх произвольного writer
func NewWithWriter(w io.Writer, level slog.Leveler) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
