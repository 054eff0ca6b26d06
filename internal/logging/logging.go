// Package logging holds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

// Options selects the level ("debug", "info", "warn", "error") and format.
// Output defaults to os.Stderr.
type Options struct {
	Level  string
	JSON   bool
	Output io.Writer
}

var def atomic.Pointer[slog.Logger]

func init() {
	Configure(Options{})
}

// Configure replaces the default logger.
func Configure(opts Options) {
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	cfg := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, cfg)
	} else {
		h = slog.NewTextHandler(w, cfg)
	}
	def.Store(slog.New(h))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// L returns the current default logger.
func L() *slog.Logger {
	return def.Load()
}

// InitFromEnv configures the logger from FEATUREPIPE_LOG_LEVEL and
// FEATUREPIPE_LOG_JSON.
func InitFromEnv() {
	json, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("FEATUREPIPE_LOG_JSON")))
	Configure(Options{Level: os.Getenv("FEATUREPIPE_LOG_LEVEL"), JSON: json})
}
