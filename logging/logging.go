package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"questlog/config"
)

// New builds the process logger: tinted stdout, plus a rotating file when
// LOG_DIR is configured.
func New(cfg *config.Config) *slog.Logger {
	var w io.Writer = os.Stdout
	noColor := false

	if cfg.LogDir != "" {
		file := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, "questlog.log"),
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
		}
		w = io.MultiWriter(os.Stdout, file)
		noColor = true
	}

	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      parseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch s {
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
