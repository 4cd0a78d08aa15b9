package match

import (
	"log/slog"
	"os"
)

// Logging on the matching path is fire-and-forget: nothing in this
// package fails because a line could not be written. The default
// logger emits JSON to stdout at Info; embedders replace it or tune
// the level.
var (
	logLevel = new(slog.LevelVar)
	logger   = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
)

// SetLogger replaces the package logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetLogLevel adjusts the verbosity of the default logger. It has no
// effect after SetLogger installs a custom one.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}
