package logger

import (
	"sync"
	"time"

	"github.com/leandrodaf/piano/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements contracts.Logger on top of Uber's zap.
type ZapLogger struct {
	mu     sync.RWMutex
	logger *zap.Logger
	level  zap.AtomicLevel
}

// NewZapLogger creates a production (JSON) logger writing to stderr.
func NewZapLogger() contracts.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	logger, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger, level: level}
}

// NewStandardLogger creates a human readable console logger, handy for examples.
func NewStandardLogger() contracts.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	logger, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger, level: level}
}

// NewZapLoggerFrom wraps an existing zap logger. The level filter is applied on top of the
// logger's own core.
func NewZapLoggerFrom(l *zap.Logger) contracts.Logger {
	return &ZapLogger{
		logger: l.WithOptions(zap.AddCallerSkip(2)),
		level:  zap.NewAtomicLevelAt(zapcore.DebugLevel),
	}
}

// NewNopLogger discards everything.
func NewNopLogger() contracts.Logger {
	return &ZapLogger{logger: zap.NewNop(), level: zap.NewAtomicLevelAt(zapcore.FatalLevel)}
}

// Info logs a message at the INFO level
func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	z.log(zapcore.InfoLevel, msg, fields...)
}

// Error logs a message at the ERROR level
func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	z.log(zapcore.ErrorLevel, msg, fields...)
}

// Debug logs a message at the DEBUG level
func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	z.log(zapcore.DebugLevel, msg, fields...)
}

// Warn logs a message at the WARN level
func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	z.log(zapcore.WarnLevel, msg, fields...)
}

// Fatal logs a message at the FATAL level and terminates the application
func (z *ZapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.log(zapcore.FatalLevel, msg, fields...)
}

// Field returns a new field builder
func (z *ZapLogger) Field() contracts.Field {
	return &zapField{}
}

// SetLevel maps the contract level onto zap's atomic level.
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level.SetLevel(toZapLevel(level))
}

// SetDestination switches the output between stderr and a JSON file. An unusable file
// keeps the current destination and reports the failure through the current logger.
func (z *ZapLogger) SetDestination(dest contracts.LogDestination, filePath ...string) {
	cfg := zap.NewProductionConfig()
	cfg.Level = z.level
	switch dest {
	case contracts.FileLog:
		if len(filePath) == 0 || filePath[0] == "" {
			z.Warn("file destination requested without a path")
			return
		}
		cfg.OutputPaths = []string{filePath[0]}
		cfg.ErrorOutputPaths = []string{filePath[0]}
	default:
		cfg.OutputPaths = []string{"stderr"}
	}

	logger, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		z.Error("failed to switch log destination", z.Field().Error("error", err))
		return
	}

	z.mu.Lock()
	old := z.logger
	z.logger = logger
	z.mu.Unlock()
	_ = old.Sync()
}

func (z *ZapLogger) log(level zapcore.Level, msg string, fields ...contracts.Field) {
	if !z.level.Enabled(level) {
		return
	}

	z.mu.RLock()
	logger := z.logger
	z.mu.RUnlock()

	zf := toZapFields(fields)
	switch level {
	case zapcore.InfoLevel:
		logger.Info(msg, zf...)
	case zapcore.ErrorLevel:
		logger.Error(msg, zf...)
	case zapcore.DebugLevel:
		logger.Debug(msg, zf...)
	case zapcore.WarnLevel:
		logger.Warn(msg, zf...)
	case zapcore.FatalLevel:
		logger.Fatal(msg, zf...)
	}
}

// The contract orders levels Info < Debug < Error < Warn < Fatal, zap does not.
func toZapLevel(level contracts.LogLevel) zapcore.Level {
	switch level {
	case contracts.DebugLevel:
		return zapcore.DebugLevel
	case contracts.WarnLevel:
		return zapcore.WarnLevel
	case contracts.ErrorLevel:
		return zapcore.ErrorLevel
	case contracts.FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields []contracts.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if f, ok := field.(*zapField); ok && f.field.Key != "" {
			out = append(out, f.field)
		}
	}
	return out
}

// zapField implements contracts.Field
type zapField struct {
	field zap.Field
}

func (f *zapField) Bool(key string, val bool) contracts.Field {
	return &zapField{zap.Bool(key, val)}
}

func (f *zapField) Int(key string, val int) contracts.Field {
	return &zapField{zap.Int(key, val)}
}

func (f *zapField) Float64(key string, val float64) contracts.Field {
	return &zapField{zap.Float64(key, val)}
}

func (f *zapField) String(key string, val string) contracts.Field {
	return &zapField{zap.String(key, val)}
}

func (f *zapField) Time(key string, val time.Time) contracts.Field {
	return &zapField{zap.Time(key, val)}
}

func (f *zapField) Duration(key string, val time.Duration) contracts.Field {
	return &zapField{zap.Duration(key, val)}
}

func (f *zapField) Int64(key string, val int64) contracts.Field {
	return &zapField{zap.Int64(key, val)}
}

func (f *zapField) Error(key string, val error) contracts.Field {
	return &zapField{zap.NamedError(key, val)}
}

func (f *zapField) Uint64(key string, val uint64) contracts.Field {
	return &zapField{zap.Uint64(key, val)}
}

func (f *zapField) Uint8(key string, val uint8) contracts.Field {
	return &zapField{zap.Uint8(key, val)}
}
