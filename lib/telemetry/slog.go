package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text handler. Verbose lowers the level to
// Debug, which also turns on per-request resty logging.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
