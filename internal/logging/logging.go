// Package logging configures the process-wide structured logger: a text
// handler to stderr by default, or a rotating file via lumberjack when
// --log-file is set. Level is gated by --verbose or the TWIG_LOG env var,
// mirroring how the retrieval pack's slog-based CLIs gate verbosity.
package logging

import (
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup builds the process logger and installs it as slog's default, so
// engine packages, which call the package-level slog functions, log
// through it.
func Setup(verbose bool, logFile string) *slog.Logger {
	level := slog.LevelInfo
	if verbose || strings.EqualFold(os.Getenv("TWIG_LOG"), "debug") {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if logFile != "" {
		writer := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
