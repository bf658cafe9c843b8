package neat

import "log/slog"

var logger = slog.Default().With(slog.String("component", "neat"))

// SetLogger replaces the logger used by the neat package. A nil logger
// restores the default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default().With(slog.String("component", "neat"))
	}
	logger = l
}
