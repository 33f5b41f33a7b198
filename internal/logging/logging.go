// Package logging provides structured logging for opsboard on top of zerolog,
// with optional size-based rotation through lumberjack.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents a log level.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

// Options holds logging configuration.
type Options struct {
	Level Level

	// JSON selects JSON console output; otherwise a human-readable console writer is used.
	JSON bool

	// FilePath enables rotated file output when set.
	FilePath string

	// Rotation settings, in megabytes, files and days.
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool

	// Console keeps stderr output when FilePath is set.
	Console bool

	// Output overrides stderr, mainly for tests.
	Output io.Writer
}

// DefaultOptions returns the defaults: info level, console-friendly output on stderr.
func DefaultOptions() *Options {
	return &Options{
		Level:      InfoLevel,
		JSON:       false,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     7,
		Compress:   true,
	}
}

// Logger wraps zerolog.Logger with the fields opsboard tags its output with.
type Logger struct {
	zl      zerolog.Logger
	command string
	source  string
}

var (
	globalLogger *Logger
	loggerMu     sync.RWMutex
)

// Init replaces the global logger. A nil opts uses DefaultOptions.
func Init(opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	console := opts.Output
	if console == nil {
		console = os.Stderr
	}

	var writers []io.Writer
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		})
	}

	if opts.Console || opts.FilePath == "" {
		if opts.JSON {
			writers = append(writers, console)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        console,
				TimeFormat: time.RFC3339,
			})
		}
	}

	var output io.Writer = writers[0]
	if len(writers) > 1 {
		output = zerolog.MultiLevelWriter(writers...)
	}

	zl := zerolog.New(output).
		Level(opts.Level).
		With().
		Timestamp().
		Logger()

	loggerMu.Lock()
	globalLogger = &Logger{zl: zl}
	loggerMu.Unlock()

	return nil
}

// Get returns the global logger, initializing it with defaults on first use.
func Get() *Logger {
	loggerMu.RLock()
	l := globalLogger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}

	_ = Init(nil)

	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

func (l *Logger) derive(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl, command: l.command, source: l.source}
}

// WithCommand tags entries with the CLI subcommand.
func (l *Logger) WithCommand(command string) *Logger {
	child := l.derive(l.zl.With().Str("command", command).Logger())
	child.command = command
	return child
}

// WithSource tags entries with the snapshot source they concern.
func (l *Logger) WithSource(source string) *Logger {
	child := l.derive(l.zl.With().Str("source", source).Logger())
	child.source = source
	return child
}

// WithField returns a new logger with an additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.derive(l.zl.With().Interface(key, value).Logger())
}

// WithFields returns a new logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return l.derive(ctx.Logger())
}

// WithError returns a new logger with the error field set.
func (l *Logger) WithError(err error) *Logger {
	return l.derive(l.zl.With().Err(err).Logger())
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.zl.Debug().Msg(msg)
}

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

// Infof logs a formatted info message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string) {
	l.zl.Warn().Msg(msg)
}

// Warnf logs a formatted warning.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string) {
	l.zl.Error().Msg(msg)
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// Event returns a zerolog Event for callers that need typed fields.
func (l *Logger) Event(level Level) *zerolog.Event {
	return l.zl.WithLevel(level)
}

// ParseLevel parses a level string into a Level.
func ParseLevel(level string) (Level, error) {
	return zerolog.ParseLevel(level)
}

// Debugf logs a formatted debug message using the global logger.
func Debugf(format string, args ...interface{}) {
	Get().Debugf(format, args...)
}

// Infof logs a formatted info message using the global logger.
func Infof(format string, args ...interface{}) {
	Get().Infof(format, args...)
}

// Warnf logs a formatted warning using the global logger.
func Warnf(format string, args ...interface{}) {
	Get().Warnf(format, args...)
}

// Errorf logs a formatted error message using the global logger.
func Errorf(format string, args ...interface{}) {
	Get().Errorf(format, args...)
}

// WithCommand returns the global logger tagged with command.
func WithCommand(command string) *Logger {
	return Get().WithCommand(command)
}

// WithSource returns the global logger tagged with source.
func WithSource(source string) *Logger {
	return Get().WithSource(source)
}

// WithField returns the global logger with an additional field.
func WithField(key string, value interface{}) *Logger {
	return Get().WithField(key, value)
}

// WithFields returns the global logger with additional fields.
func WithFields(fields map[string]interface{}) *Logger {
	return Get().WithFields(fields)
}

// WithError returns the global logger with the error set.
func WithError(err error) *Logger {
	return Get().WithError(err)
}

// Settings mirrors the logging block of the config file.
type Settings struct {
	Level      string
	FilePath   string
	JSON       bool
	Console    bool
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// InitFromSettings initializes the global logger from config-file settings.
func InitFromSettings(s Settings) error {
	opts := DefaultOptions()

	if s.Level != "" {
		level, err := ParseLevel(s.Level)
		if err != nil {
			return err
		}
		opts.Level = level
	}

	opts.FilePath = s.FilePath
	opts.JSON = s.JSON
	opts.Console = s.Console
	if s.MaxSize > 0 {
		opts.MaxSize = s.MaxSize
	}
	if s.MaxBackups > 0 {
		opts.MaxBackups = s.MaxBackups
	}
	if s.MaxAge > 0 {
		opts.MaxAge = s.MaxAge
	}
	opts.Compress = s.Compress

	return Init(opts)
}
