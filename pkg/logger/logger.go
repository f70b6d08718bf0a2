package logger

import "strings"

type Level int8

const (
	Disabled   Level = -1   // Disabled turns logging off.
	TraceLevel Level = iota // TraceLevel reports every drawn element.
	DebugLevel              // DebugLevel reports pipeline stages and cache activity.
	InfoLevel               // InfoLevel reports loaded charts and server lifecycle.
	WarnLevel               // WarnLevel reports coerced values and degenerate scales.
	ErrorLevel              // ErrorLevel reports charts that failed to render.
	FatalLevel              // FatalLevel logs and exits.
	NoLevel                 // NoLevel is used when a level cannot be resolved.
)

// ParseLevel resolves a level name as written in configuration files
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "info", "":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	case "disabled", "off":
		return Disabled
	default:
		return NoLevel
	}
}

// Logger is the logging contract shared by every package of the module
type Logger interface {
	WithField(key string, value any) Logger  // WithField returns a logger decorated with one key-value pair.
	WithFields(fields map[string]any) Logger // WithFields returns a logger decorated with the given fields.
	WithError(err error) Logger              // WithError returns a logger carrying the error.

	Trace(args ...any)
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Fatal(args ...any)

	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)

	SetLevel(level Level)
	GetLevel() Level
}
