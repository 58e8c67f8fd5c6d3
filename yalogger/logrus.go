package yalogger

import (
	"io"
	"maps"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// logrusAdapter is an adapter that implements the Logger interface using a logrus.Entry.
type logrusAdapter struct {
	entry *logrus.Entry
}

// baseLogrus holds a reference to a configured logrus.Logger instance.
type baseLogrus struct {
	logger *logrus.Logger
}

// NewBaseLogger creates and configures a new base logger based on the provided configuration.
//
// Notes:
//
//   - A nil config yields a Debug level text logger without timestamps.
//   - If the logger type specified in config is not supported, the function panics.
func NewBaseLogger(config *Config) BaseLogger {
	if config == nil {
		config = &Config{
			BaseLoggerType:   Logrus,
			Level:            DebugLevel,
			TimestampFormat:  DefaultTimestampFormat,
			DisableTimestamp: true,
		}
	}

	switch config.BaseLoggerType {
	case Logrus:
		base := logrus.New()
		base.SetLevel(logrus.Level(config.Level))

		if config.Output != nil {
			base.SetOutput(config.Output)
		}

		if config.JSON {
			base.SetFormatter(&logrus.JSONFormatter{
				TimestampFormat:  config.TimestampFormat,
				DisableTimestamp: config.DisableTimestamp,
			})
		} else {
			base.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:    config.FullTimestamp,
				TimestampFormat:  config.TimestampFormat,
				DisableTimestamp: config.DisableTimestamp,
			})
		}

		return &baseLogrus{logger: base}
	default:
		panic("Unsupported logger type, you are a teapot!!!")
	}
}

// FromLogrus wraps an existing logrus logger. Handy in tests together with
// logrus/hooks/test.
func FromLogrus(logger *logrus.Logger) Logger {
	return &logrusAdapter{entry: logrus.NewEntry(logger)}
}

// NewDiscard returns a logger that drops every entry.
func NewDiscard() Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)

	return FromLogrus(base)
}

// NewLogger creates a new Logger instance from the base logrus logger.
func (b *baseLogrus) NewLogger() Logger {
	return &logrusAdapter{entry: logrus.NewEntry(b.logger)}
}

func (l *logrusAdapter) Info(msg string) {
	l.entry.Info(msg)
}

func (l *logrusAdapter) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *logrusAdapter) Error(msg string) {
	l.entry.Error(msg)
}

func (l *logrusAdapter) Errorf(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

func (l *logrusAdapter) Warn(msg string) {
	l.entry.Warn(msg)
}

func (l *logrusAdapter) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *logrusAdapter) Debug(msg string) {
	l.entry.Debug(msg)
}

func (l *logrusAdapter) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *logrusAdapter) Fatal(msg string) {
	l.entry.Fatal(msg)
}

func (l *logrusAdapter) Fatalf(format string, args ...any) {
	l.entry.Fatalf(format, args...)
}

func (l *logrusAdapter) Trace(msg string) {
	l.entry.Trace(msg)
}

func (l *logrusAdapter) Tracef(format string, args ...any) {
	l.entry.Tracef(format, args...)
}

// WithField returns a new Logger instance with a single key-value pair added to the log context.
//
// Example usage:
//
//	logger.WithField("gap", gap).Info("Retry scheduled")
func (l *logrusAdapter) WithField(key string, value any) Logger {
	return &logrusAdapter{entry: l.entry.WithField(key, value)}
}

// WithFields returns a new Logger instance with multiple key-value pairs added to the log context.
func (l *logrusAdapter) WithFields(fields map[string]any) Logger {
	return &logrusAdapter{entry: l.entry.WithFields(fields)}
}

// WithSocketID returns a new Logger instance tagged with the socket UUID.
func (l *logrusAdapter) WithSocketID(id uuid.UUID) Logger {
	return &logrusAdapter{entry: l.entry.WithField(KeySocketID, id.String())}
}

// WithRandomRequestID returns a new Logger instance with a randomly generated numeric request ID.
func (l *logrusAdapter) WithRandomRequestID() Logger {
	return &logrusAdapter{entry: l.entry.WithField(KeyRequestID, rand.Uint64())}
}

// GetFields returns a copy of the current log context fields.
func (l *logrusAdapter) GetFields() map[string]any {
	fields := make(map[string]any, len(l.entry.Data))
	maps.Copy(fields, l.entry.Data)

	return fields
}

// GetField returns the value of a specific field from the log context,
// or nil if the field is not found.
func (l *logrusAdapter) GetField(key string) any {
	val, ok := l.entry.Data[key]
	if !ok {
		return nil
	}

	return val
}
