// Package log provides structured logging for cardiobench on top of
// zerolog. It exposes a minimal slog-style interface so call sites stay
// decoupled from the backend, plus the attribute keys used across the
// evaluation harness.
//
// Example:
//
//	logger := log.GetLoggerWithName("harness").With(log.ModelNameKey, "SVM")
//	logger.Info("fit complete", log.SamplesKey, 242, log.AccuracyKey, 0.85)
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"cardiobench/pkg/errors"
)

// Common structured attribute keys.
const (
	ModelNameKey = "model"
	OperationKey = "operation"
	SamplesKey   = "samples"
	FeaturesKey  = "features"
	AccuracyKey  = "accuracy"
	IterationKey = "iteration"
	PathKey      = "path"
)

// Logger is a minimal structured logging interface. Fields are
// alternating key/value pairs, as in log/slog.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	With(fields ...any) Logger
}

type zerologLogger struct {
	zl zerolog.Logger
}

var (
	mu   sync.RWMutex
	root = newRoot(os.Stderr, zerolog.InfoLevel)
)

func newRoot(w io.Writer, level zerolog.Level) *zerologLogger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return &zerologLogger{zl: zerolog.New(cw).Level(level).With().Timestamp().Logger()}
}

func init() {
	// Route metric/solver warnings from pkg/errors into the logger.
	errors.SetZerologWarnFunc(func(warning error) {
		mu.RLock()
		l := root
		mu.RUnlock()
		ev := l.zl.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.EmbedObject(obj)
		}
		ev.Msg(warning.Error())
	})
}

// SetOutput redirects all loggers to w. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	lvl := root.zl.GetLevel()
	root = newRoot(w, lvl)
}

// SetLevel sets the minimum level emitted by all loggers.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	root = &zerologLogger{zl: root.zl.Level(level)}
}

// GetLogger returns the process-wide default logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// GetLoggerWithName returns a logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With("component", name)
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.zl.Debug().Fields(pairs(fields)).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	l.zl.Info().Fields(pairs(fields)).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.zl.Warn().Fields(pairs(fields)).Msg(msg)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	// An error value in the leading position gets first-class treatment.
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			fields = fields[1:]
		}
	}
	ev.Fields(pairs(fields)).Msg(msg)
}

func (l *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(pairs(fields)).Logger()}
}

// pairs converts alternating key/value arguments into the map form
// zerolog consumes. A trailing key without a value is dropped.
func pairs(fields []any) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		m[key] = fields[i+1]
	}
	return m
}
