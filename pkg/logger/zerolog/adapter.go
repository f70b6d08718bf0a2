package zerolog

import (
	"fmt"

	"github.com/raykavin/trendline/pkg/logger"
	"github.com/rs/zerolog"
)

// Adapter exposes a zerolog.Logger through the logger.Logger interface
type Adapter struct {
	*zerolog.Logger
}

var _ logger.Logger = (*Adapter)(nil)

func NewAdapter(l *zerolog.Logger) *Adapter {
	return &Adapter{l}
}

// GetLevel implements logger.Logger.
func (a *Adapter) GetLevel() logger.Level {
	return toLevel(a.Logger.GetLevel())
}

// SetLevel implements logger.Logger. It only affects this logger instance.
func (a *Adapter) SetLevel(level logger.Level) {
	l := a.Logger.Level(toZerologLevel(level))
	a.Logger = &l
}

func (a *Adapter) Trace(args ...any) { a.Logger.Trace().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Debug(args ...any) { a.Logger.Debug().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Info(args ...any)  { a.Logger.Info().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Warn(args ...any)  { a.Logger.Warn().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Error(args ...any) { a.Logger.Error().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Fatal(args ...any) { a.Logger.Fatal().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Tracef(format string, args ...any) { a.Logger.Trace().Msgf(format, args...) }
func (a *Adapter) Debugf(format string, args ...any) { a.Logger.Debug().Msgf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.Logger.Info().Msgf(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.Logger.Warn().Msgf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.Logger.Error().Msgf(format, args...) }
func (a *Adapter) Fatalf(format string, args ...any) { a.Logger.Fatal().Msgf(format, args...) }

// WithError implements logger.Logger.
func (a *Adapter) WithError(err error) logger.Logger {
	l := a.With().Err(err).Logger()
	return &Adapter{&l}
}

// WithField implements logger.Logger.
func (a *Adapter) WithField(key string, value any) logger.Logger {
	l := a.With().Interface(key, value).Logger()
	return &Adapter{&l}
}

// WithFields implements logger.Logger.
func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	l := a.With().Fields(fields).Logger()
	return &Adapter{&l}
}

var levels = map[zerolog.Level]logger.Level{
	zerolog.Disabled:   logger.Disabled,
	zerolog.NoLevel:    logger.NoLevel,
	zerolog.TraceLevel: logger.TraceLevel,
	zerolog.DebugLevel: logger.DebugLevel,
	zerolog.InfoLevel:  logger.InfoLevel,
	zerolog.WarnLevel:  logger.WarnLevel,
	zerolog.ErrorLevel: logger.ErrorLevel,
	zerolog.FatalLevel: logger.FatalLevel,
}

func toLevel(level zerolog.Level) logger.Level {
	if l, ok := levels[level]; ok {
		return l
	}
	return logger.NoLevel
}

func toZerologLevel(level logger.Level) zerolog.Level {
	for zl, l := range levels {
		if l == level {
			return zl
		}
	}
	return zerolog.NoLevel
}
