// Package logging настраивает цветной структурный вывод через tint.
//
// Уровень берётся из переменной окружения LOG_LEVEL
// (debug, info, warn, error; по умолчанию info).
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup устанавливает обработчик slog по умолчанию
func Setup() {
	SetupWithLevel(levelFromEnv())
}

// SetupWithLevel устанавливает обработчик с явным уровнем
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
