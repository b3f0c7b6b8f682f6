package batch

import (
	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed information, typically of interest only when diagnosing problems.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for informational messages that highlight the progress of the application.
	LogLevelInfo
	// LogLevelWarn is for potentially harmful situations that might require attention.
	LogLevelWarn
	// LogLevelError is for error events that might still allow the application to continue running.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the interface for logging within the batch worker.
// Implementations can route logs to various destinations (stdout, files, external services).
// The Logger is optional - if not provided, no logging occurs.
type Logger interface {
	// Log writes a log message at the specified level.
	// The message is formatted using fmt.Sprintf if args are provided.
	Log(level LogLevel, format string, args ...interface{})

	// Debug logs a debug-level message.
	Debug(format string, args ...interface{})

	// Info logs an info-level message.
	Info(format string, args ...interface{})

	// Warn logs a warning-level message.
	Warn(format string, args ...interface{})

	// Error logs an error-level message.
	Error(format string, args ...interface{})
}

// NoOpLogger is a logger that discards all log messages.
// It implements the Logger interface but performs no operations.
// This is the default logger when none is specified.
type NoOpLogger struct{}

// Log implements the Logger interface.
func (n *NoOpLogger) Log(level LogLevel, format string, args ...interface{}) {}

// Debug implements the Logger interface.
func (n *NoOpLogger) Debug(format string, args ...interface{}) {}

// Info implements the Logger interface.
func (n *NoOpLogger) Info(format string, args ...interface{}) {}

// Warn implements the Logger interface.
func (n *NoOpLogger) Warn(format string, args ...interface{}) {}

// Error implements the Logger interface.
func (n *NoOpLogger) Error(format string, args ...interface{}) {}

// ZerologLogger routes log messages to a zerolog.Logger. Levels map onto the
// zerolog levels of the same name, so the zerolog level filter applies.
type ZerologLogger struct {
	Logger zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger that tags every message with
// component=batch.
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{Logger: logger.With().Str("component", "batch").Logger()}
}

// Log implements the Logger interface.
func (z *ZerologLogger) Log(level LogLevel, format string, args ...interface{}) {
	z.Logger.WithLevel(zerologLevel(level)).Msgf(format, args...)
}

// Debug implements the Logger interface.
func (z *ZerologLogger) Debug(format string, args ...interface{}) {
	z.Log(LogLevelDebug, format, args...)
}

// Info implements the Logger interface.
func (z *ZerologLogger) Info(format string, args ...interface{}) {
	z.Log(LogLevelInfo, format, args...)
}

// Warn implements the Logger interface.
func (z *ZerologLogger) Warn(format string, args ...interface{}) {
	z.Log(LogLevelWarn, format, args...)
}

// Error implements the Logger interface.
func (z *ZerologLogger) Error(format string, args ...interface{}) {
	z.Log(LogLevelError, format, args...)
}

func zerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelInfo:
		return zerolog.InfoLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}

// CharmLogger routes log messages to a charmbracelet logger, for human
// readable terminal output.
type CharmLogger struct {
	Logger *log.Logger
}

// NewCharmLogger creates a CharmLogger. The logger's own level filter applies.
func NewCharmLogger(logger *log.Logger) *CharmLogger {
	return &CharmLogger{Logger: logger.WithPrefix("batch")}
}

// Log implements the Logger interface.
func (c *CharmLogger) Log(level LogLevel, format string, args ...interface{}) {
	c.Logger.Logf(charmLevel(level), format, args...)
}

// Debug implements the Logger interface.
func (c *CharmLogger) Debug(format string, args ...interface{}) {
	c.Logger.Debugf(format, args...)
}

// Info implements the Logger interface.
func (c *CharmLogger) Info(format string, args ...interface{}) {
	c.Logger.Infof(format, args...)
}

// Warn implements the Logger interface.
func (c *CharmLogger) Warn(format string, args ...interface{}) {
	c.Logger.Warnf(format, args...)
}

// Error implements the Logger interface.
func (c *CharmLogger) Error(format string, args ...interface{}) {
	c.Logger.Errorf(format, args...)
}

func charmLevel(level LogLevel) log.Level {
	switch level {
	case LogLevelDebug:
		return log.DebugLevel
	case LogLevelWarn:
		return log.WarnLevel
	case LogLevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
