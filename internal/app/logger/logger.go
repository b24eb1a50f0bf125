package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	// setup global logger
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

type Logger struct {
	zerolog.Logger
}

type Component interface {
	// LoggerComponent returns component name used in component loggers
	LoggerComponent() string
}

// New configures the global logger writing to stdout
func New(verbose, pretty bool) Logger {
	return NewWithWriter(os.Stdout, verbose, pretty)
}

// NewWithWriter configures the global logger writing to w
func NewWithWriter(w io.Writer, verbose, pretty bool) Logger {
	logLevel := zerolog.InfoLevel
	if verbose {
		logLevel = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	return Logger{log.Logger}
}

// Global returns current global logger
func Global() *Logger {
	return &Logger{log.Logger}
}

// Get returns context logger for component
func Get(ctx context.Context, c interface{}) Logger {
	return Ctx(ctx).Component(c)
}

// Ctx returns the request logger of ctx, the global one outside of requests
func Ctx(ctx context.Context) Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return *Global()
	}
	return Logger{Logger: *l}
}

// Component creates logger for a Component or a plain component name
func (l Logger) Component(c interface{}) Logger {
	switch v := c.(type) {
	case Component:
		return l.WithComponent(v.LoggerComponent())
	case string:
		return l.WithComponent(v)
	}
	return l
}

// WithComponent creates child logger for named component
func (l Logger) WithComponent(name string) Logger {
	return Logger{Logger: l.With().Str("component", name).Logger()}
}
