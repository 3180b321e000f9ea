package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

var (
	mu            sync.RWMutex
	defaultLevel  string
	consoleOutput bool
)

// Configure sets the level and format used by loggers created afterwards.
// APP_ENV=dev and HANGAR_LOG_LEVEL still take precedence.
func Configure(level, format string) {
	mu.Lock()
	defer mu.Unlock()
	defaultLevel = level
	consoleOutput = strings.EqualFold(format, "console")
}

// NewZerologLogger creates a ZerologLogger writing to stderr so that command
// output on stdout stays machine readable. All logs include the provided
// component field.
func NewZerologLogger(component string) Logger {
	mu.RLock()
	level, console := defaultLevel, consoleOutput
	mu.RUnlock()
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		console = true
	}
	if env := os.Getenv("HANGAR_LOG_LEVEL"); env != "" {
		level = env
	}
	var w io.Writer = os.Stderr
	if console {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewZerologLoggerWithWriter(component, w, level)
}

// NewZerologLoggerWithWriter builds a logger writing to w. An empty or unknown
// level keeps zerolog's default (debug).
func NewZerologLoggerWithWriter(component string, w io.Writer, level string) Logger {
	z := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	if lvl, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && level != "" {
		z = z.Level(lvl)
	}
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
