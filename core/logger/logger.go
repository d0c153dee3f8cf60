package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init configures the global logger. Level is one of debug|info|warn|error;
// anything else falls back to info.
func Init(level string) {
	once.Do(func() {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: parseLevel(level),
		}))
	})
}

func get() *slog.Logger {
	if log == nil {
		Init("info")
	}
	return log
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// Error accepts either ("msg", err) or ("msg", "key", value, ...) call shapes.
func Error(msg string, args ...any) {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			get().Error(msg, "error", err)
			return
		}
	}
	get().Error(msg, args...)
}
