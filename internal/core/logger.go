package core

// LogLevel orders verbosity from trace (chattiest) to error. The -v flag
// count maps onto it: no flag is info, -v debug, -vv trace.
type LogLevel int

const (
	LevelTrace LogLevel = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is the surface commands report reconciliation progress through.
// DefaultLogger renders via pterm and slog; tests can substitute their
// own implementation or pass nil where nothing is logged.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	SetLevel(level LogLevel)
}
