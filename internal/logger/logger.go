package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"habit-tracker/internal/config"
)

// New builds the service logger from the logging section.
// Any output path other than stdout or stderr is a rotating file.
func New(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	out := output(cfg)
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: !isStream(cfg)}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func output(cfg config.LoggingConfig) io.Writer {
	switch cfg.OutputPath {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	default:
		return &lumberjack.Logger{
			Filename:   cfg.OutputPath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
	}
}

func isStream(cfg config.LoggingConfig) bool {
	return cfg.OutputPath == "" || cfg.OutputPath == "stderr" || cfg.OutputPath == "stdout"
}
