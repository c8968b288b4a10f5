// Package log provides the leveled logger shared by the interop packages and shell.
package log

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents the logging level
type Level int32

const (
	// LevelDebug level for detailed troubleshooting information
	LevelDebug Level = iota
	// LevelInfo level for general operational information
	LevelInfo
	// LevelWarn level for potentially harmful situations
	LevelWarn
	// LevelError level for failed operations the caller recovers from
	LevelError
	// LevelFatal level for errors that abort the process
	LevelFatal
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", l)
	}
}

// ParseLevel maps a case-insensitive level name onto a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger is the logging contract accepted by buffer sources and the shell.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	// Fatal logs and then calls os.Exit(1)
	Fatal(msg string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithField(key string, value interface{}) Logger
	GetLevel() Level
	SetLevel(level Level)
}

// StandardLogger writes one line per entry:
//
//	[timestamp] [LEVEL] key=value ... message
//
// Fields are emitted in key order so output is stable.
type StandardLogger struct {
	mu     *sync.Mutex
	level  *atomic.Int32
	out    io.Writer
	fields map[string]interface{}
	exit   func(int)
}

// LoggerOption configures a StandardLogger
type LoggerOption func(*StandardLogger)

// NewStandardLogger creates a logger writing to stdout at info level
func NewStandardLogger(options ...LoggerOption) *StandardLogger {
	logger := &StandardLogger{
		mu:     &sync.Mutex{},
		level:  &atomic.Int32{},
		out:    os.Stdout,
		fields: make(map[string]interface{}),
		exit:   os.Exit,
	}
	logger.level.Store(int32(LevelInfo))

	for _, option := range options {
		option(logger)
	}

	return logger
}

// WithLevel sets the logging level
func WithLevel(level Level) LoggerOption {
	return func(l *StandardLogger) {
		l.level.Store(int32(level))
	}
}

// WithOutput sets the output writer
func WithOutput(out io.Writer) LoggerOption {
	return func(l *StandardLogger) {
		l.out = out
	}
}

// WithInitialFields sets initial fields for the logger
func WithInitialFields(fields map[string]interface{}) LoggerOption {
	return func(l *StandardLogger) {
		maps.Copy(l.fields, fields)
	}
}

// WithComponent tags every entry with component=name
func WithComponent(name string) LoggerOption {
	return func(l *StandardLogger) {
		l.fields["component"] = name
	}
}

// Discard returns a logger that drops everything below Fatal.
func Discard() *StandardLogger {
	return NewStandardLogger(WithOutput(io.Discard), WithLevel(LevelFatal))
}

func (l *StandardLogger) log(level Level, msg string, args ...interface{}) {
	if level < l.GetLevel() {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s]", time.Now().Format("2006-01-02 15:04:05.000"), level)
	for _, k := range slices.Sorted(maps.Keys(l.fields)) {
		fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
	}
	b.WriteByte(' ')
	b.WriteString(msg)
	b.WriteByte('\n')

	l.mu.Lock()
	io.WriteString(l.out, b.String())
	l.mu.Unlock()

	if level == LevelFatal {
		l.exit(1)
	}
}

// Debug logs a debug-level message
func (l *StandardLogger) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an info-level message
func (l *StandardLogger) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning-level message
func (l *StandardLogger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error-level message
func (l *StandardLogger) Error(msg string, args ...interface{}) {
	l.log(LevelError, msg, args...)
}

// Fatal logs a fatal-level message and then calls os.Exit(1)
func (l *StandardLogger) Fatal(msg string, args ...interface{}) {
	l.log(LevelFatal, msg, args...)
}

// WithFields returns a child logger carrying the extra fields.
// The child shares the parent's output and level.
func (l *StandardLogger) WithFields(fields map[string]interface{}) Logger {
	child := &StandardLogger{
		mu:     l.mu,
		level:  l.level,
		out:    l.out,
		fields: make(map[string]interface{}, len(l.fields)+len(fields)),
		exit:   l.exit,
	}
	maps.Copy(child.fields, l.fields)
	maps.Copy(child.fields, fields)
	return child
}

// WithField returns a child logger carrying one extra field
func (l *StandardLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// GetLevel returns the current logging level
func (l *StandardLogger) GetLevel() Level {
	return Level(l.level.Load())
}

// SetLevel sets the logging level
func (l *StandardLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

var defaultLogger atomic.Pointer[StandardLogger]

func init() {
	defaultLogger.Store(NewStandardLogger())
}

// SetDefaultLogger replaces the package-level logger
func SetDefaultLogger(logger *StandardLogger) {
	defaultLogger.Store(logger)
}

// GetDefaultLogger returns the package-level logger
func GetDefaultLogger() *StandardLogger {
	return defaultLogger.Load()
}

// Debug logs to the default logger
func Debug(msg string, args ...interface{}) {
	GetDefaultLogger().Debug(msg, args...)
}

// Info logs to the default logger
func Info(msg string, args ...interface{}) {
	GetDefaultLogger().Info(msg, args...)
}

// Warn logs to the default logger
func Warn(msg string, args ...interface{}) {
	GetDefaultLogger().Warn(msg, args...)
}

// Error logs to the default logger
func Error(msg string, args ...interface{}) {
	GetDefaultLogger().Error(msg, args...)
}

// Fatal logs to the default logger and exits
func Fatal(msg string, args ...interface{}) {
	GetDefaultLogger().Fatal(msg, args...)
}

// WithFields derives from the default logger
func WithFields(fields map[string]interface{}) Logger {
	return GetDefaultLogger().WithFields(fields)
}

// WithField derives from the default logger
func WithField(key string, value interface{}) Logger {
	return GetDefaultLogger().WithField(key, value)
}

// SetLevel sets the default logger's level
func SetLevel(level Level) {
	GetDefaultLogger().SetLevel(level)
}
