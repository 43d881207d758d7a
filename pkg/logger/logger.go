package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/yanqian/portal-assistant/internal/infra/config"
)

const serviceName = "portal-assistant"

// New constructs a JSON slog logger. When a log file is configured, output
// goes to both stdout and a size rotated file.
func New(cfg *config.Config) *slog.Logger {
	return slog.New(NewHandler(cfg.Log, os.Stdout)).With("service", serviceName)
}

// NewHandler builds the JSON handler for the given log settings.
func NewHandler(cfg config.LogConfig, stdout io.Writer) slog.Handler {
	var out io.Writer = stdout
	if path := strings.TrimSpace(cfg.File); path != "" {
		out = io.MultiWriter(stdout, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}
	return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
}

func parseLevel(level string) slog.Leveler {
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
