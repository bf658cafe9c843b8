package store

import "log/slog"

var logger = slog.Default().With(slog.String("component", "store"))

// SetLogger replaces the logger used by the store backends. A nil logger
// restores the default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default().With(slog.String("component", "store"))
	}
	logger = l
}
