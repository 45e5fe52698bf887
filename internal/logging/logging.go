package logging

import (
	"log"
	"log/slog"
	"os"
)

// Setup installs a JSON slog handler as the default logger and bridges
// the standard library logger through it.
func Setup(service string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{})
	base := slog.New(handler).With(slog.String("service", service))
	slog.SetDefault(base)

	bridge := slog.NewLogLogger(handler, slog.LevelInfo)
	bridge.SetFlags(0)
	log.SetOutput(bridge.Writer())
	log.SetFlags(0)

	return base
}
