// Package sysutil holds process-level helpers: log level and sink setup,
// and small string utilities used while wiring the server.
package sysutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tbourn/go-mood-journal/internal/config"
)

// SetLogLevel configures the global zerolog level based on a string value.
// Supported values (case-insensitive): debug, info, warn, error, fatal, panic.
func SetLogLevel(lvl string) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// LogWriter builds the sink for the global logger: stdout (console-formatted
// when pretty is set) plus, when cfg.Path is non-empty, a size-rotated JSON
// file. The returned closer releases the file and is a no-op otherwise.
func LogWriter(stdout io.Writer, pretty bool, cfg config.LogFileConfig) (io.Writer, io.Closer) {
	var console io.Writer = stdout
	if pretty {
		console = zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}
	}
	if strings.TrimSpace(cfg.Path) == "" {
		return console, nopCloser{}
	}
	file := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	return zerolog.MultiLevelWriter(console, file), file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogger points the global logger at the configured sinks and level.
func SetupLogger(cfg config.Config) io.Closer {
	SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	w, closer := LogWriter(os.Stdout, cfg.LogPretty, cfg.LogFile)
	log.Logger = zerolog.New(w).With().Timestamp().Str("service", cfg.OTEL.ServiceName).Logger()
	return closer
}

// FirstNonEmpty returns the first non-empty string from a variadic list.
// If all values are empty, it returns "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
