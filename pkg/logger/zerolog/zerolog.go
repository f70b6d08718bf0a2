package zerolog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the console logger
type Options struct {
	Level      string    // trace, debug, info, warn, error
	TimeLayout string    // layout used for the timestamp column
	Colored    bool      // colorize level, caller and timestamp
	JSON       bool      // emit raw JSON lines instead of the console format
	Output     io.Writer // defaults to stdout
}

// New builds a zerolog logger writing to the console and wraps it in an Adapter
func New(opts Options) (*Adapter, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level := opts.Level
	if level == "" {
		level = "info"
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	layout := opts.TimeLayout
	if layout == "" {
		layout = time.DateTime
	}

	var writer io.Writer = out
	if !opts.JSON {
		console := zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    !opts.Colored,
			TimeFormat: layout,
		}
		if opts.Colored {
			console.FormatLevel = formatLevel
			console.FormatMessage = formatMessage
			console.FormatCaller = formatCaller
			console.FormatTimestamp = func(i any) string {
				return formatTimestamp(i, layout)
			}
		}
		writer = console
	}

	logger := zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		CallerWithSkipFrameCount(3).
		Logger()

	return NewAdapter(&logger), nil
}

// NewNop returns a logger that discards everything, handy in tests
func NewNop() *Adapter {
	logger := zerolog.Nop()
	return NewAdapter(&logger)
}

func formatLevel(i any) string {
	level, ok := i.(string)
	if !ok {
		return term.Whitef("[UNK]")
	}

	switch level {
	case zerolog.LevelTraceValue:
		return term.Cyanf("[TRC]")
	case zerolog.LevelDebugValue:
		return term.Cyanf("[DBG]")
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WAR]")
	case zerolog.LevelErrorValue:
		return term.Redf("[ERR]")
	case zerolog.LevelFatalValue:
		return term.Redf("[FTL]")
	default:
		return term.Whitef("[UNK]")
	}
}

func formatMessage(i any) string {
	const width = 72

	msg, ok := i.(string)
	if !ok || msg == "" {
		return ">"
	}

	if len(msg) > width {
		msg = msg[:width]
	} else {
		msg += strings.Repeat(" ", width-len(msg))
	}

	return term.Whitef("> %s", msg)
}

func formatCaller(i any) string {
	const fileWidth = 16

	name, ok := i.(string)
	if !ok || name == "" {
		return ""
	}

	file, line, found := strings.Cut(filepath.Base(name), ":")
	if !found {
		return term.Yellowf("[%s]", file)
	}

	if len(file) > fileWidth {
		file = file[:fileWidth]
	}

	return term.Yellowf("[%-*s:%4s]", fileWidth, file, line)
}

func formatTimestamp(i any, layout string) string {
	raw, ok := i.(string)
	if !ok {
		return term.Cyanf("[%v]", i)
	}

	if ts, err := time.ParseInLocation(time.RFC3339, raw, time.Local); err == nil {
		raw = ts.In(time.Local).Format(layout)
	}

	return term.Cyanf("[%s]", raw)
}
