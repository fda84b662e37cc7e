package logging

import (
	"io"
	"os"
	"strings"

	"github.com/Combine-Capital/gqllog/pkg/config"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a zerolog.Logger built from a config.LogConfig. The zerolog event
// methods (Info, Debug, Error...) are promoted, so call sites read like plain
// zerolog.
type Logger struct {
	zerolog.Logger
}

// New builds a Logger for cfg. Output is stdout, stderr or a file path, which
// is written through a rotating lumberjack writer.
func New(cfg config.LogConfig) *Logger {
	var w io.Writer = sink(cfg)
	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"}
	}
	return newLogger(w, cfg.Level)
}

// NewWithWriter builds a JSON Logger on w at the named level.
func NewWithWriter(w io.Writer, level string) *Logger {
	return newLogger(w, level)
}

func newLogger(w io.Writer, level string) *Logger {
	return &Logger{
		Logger: zerolog.New(w).Level(levelOf(level)).With().Timestamp().Logger(),
	}
}

func sink(cfg config.LogConfig) io.Writer {
	switch out := strings.ToLower(cfg.Output); out {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
}

// levelOf maps a configured level name to zerolog, defaulting to info.
func levelOf(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithComponent returns a child logger whose lines carry component under the
// "target" key.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.With().Str(Component, component).Logger()}
}
