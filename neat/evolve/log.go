package evolve

import "log/slog"

var logger = slog.Default().With(slog.String("component", "evolve"))

// SetLogger replaces the logger used by the population loop. A nil logger
// restores the default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default().With(slog.String("component", "evolve"))
	}
	logger = l
}
