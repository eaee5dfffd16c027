// Package zap implements observability.StructuredLogger on go.uber.org/zap.
package zap

import (
	"fmt"
	"os"
	"slices"
	"strings"

	ubzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/theory-cloud/sitetheory/pkg/observability"
	"github.com/theory-cloud/sitetheory/pkg/sanitization"
)

// Logger writes through a zap core that sanitizes every message and field.
type Logger struct {
	z *ubzap.Logger
}

var _ observability.StructuredLogger = (*Logger)(nil)

type Option func(*options)

type options struct {
	output zapcore.WriteSyncer
}

// WithOutput directs encoded entries to w instead of stderr.
func WithOutput(w zapcore.WriteSyncer) Option {
	return func(o *options) { o.output = w }
}

// New builds a Logger from cfg.
func New(cfg observability.LoggerConfig, opts ...Option) (*Logger, error) {
	o := options{output: zapcore.Lock(os.Stderr)}
	for _, opt := range opts {
		opt(&o)
	}

	levelName := strings.TrimSpace(cfg.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("observability/zap: %w", err)
	}

	enc := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
	}
	var zopts []ubzap.Option
	if cfg.Caller {
		enc.CallerKey = "caller"
		enc.EncodeCaller = zapcore.ShortCallerEncoder
		zopts = append(zopts, ubzap.AddCaller(), ubzap.AddCallerSkip(1))
	}

	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "" {
		format = "console"
		if isCI() {
			format = "json"
		}
	}
	var encoder zapcore.Encoder
	switch format {
	case "json":
		encoder = zapcore.NewJSONEncoder(enc)
	case "console":
		encoder = zapcore.NewConsoleEncoder(enc)
	default:
		return nil, fmt.Errorf("observability/zap: unsupported log format %q", cfg.Format)
	}

	return newLogger(zapcore.NewCore(encoder, o.output, level), zopts...), nil
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{z: ubzap.NewNop()}
}

func newLogger(core zapcore.Core, opts ...ubzap.Option) *Logger {
	return &Logger{z: ubzap.New(sanitizingCore{Core: core}, opts...)}
}

// isCI reports whether synth runs in a pipeline, where JSON output is easier to index.
func isCI() bool {
	for _, key := range []string{"CI", "CODEBUILD_BUILD_ID", "GITHUB_ACTIONS"} {
		if strings.TrimSpace(os.Getenv(key)) != "" {
			return true
		}
	}
	return false
}

// ConfigFromEnv reads the SITETHEORY_LOG_* variables, falling back to LOG_LEVEL and LOG_FORMAT.
func ConfigFromEnv(lookup func(string) (string, bool)) observability.LoggerConfig {
	first := func(keys ...string) string {
		for _, key := range keys {
			if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
		return ""
	}
	return observability.LoggerConfig{
		Level:  first("SITETHEORY_LOG_LEVEL", "LOG_LEVEL"),
		Format: first("SITETHEORY_LOG_FORMAT", "LOG_FORMAT"),
		Caller: strings.EqualFold(first("SITETHEORY_LOG_CALLER", "LOG_CALLER"), "true"),
	}
}

func (l *Logger) Debug(message string, fields ...map[string]any) {
	l.z.Debug(message, zapFields(fields...)...)
}

func (l *Logger) Info(message string, fields ...map[string]any) {
	l.z.Info(message, zapFields(fields...)...)
}

func (l *Logger) Warn(message string, fields ...map[string]any) {
	l.z.Warn(message, zapFields(fields...)...)
}

func (l *Logger) Error(message string, fields ...map[string]any) {
	l.z.Error(message, zapFields(fields...)...)
}

func (l *Logger) WithFields(fields map[string]any) observability.StructuredLogger {
	return &Logger{z: l.z.With(zapFields(fields)...)}
}

func (l *Logger) WithStack(stack string) observability.StructuredLogger {
	return &Logger{z: l.z.With(ubzap.String(observability.StackKey, stack))}
}

func (l *Logger) WithConstruct(path string) observability.StructuredLogger {
	return &Logger{z: l.z.With(ubzap.String(observability.ConstructKey, path))}
}

func (l *Logger) Sync() error {
	return l.z.Sync()
}

// zapFields merges the maps, later keys winning, and orders fields by key.
func zapFields(sets ...map[string]any) []zapcore.Field {
	merged := map[string]any{}
	for _, set := range sets {
		for k, v := range set {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return nil
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]zapcore.Field, 0, len(keys))
	for _, k := range keys {
		switch v := merged[k].(type) {
		case []string, []any, map[string]any, map[string]string:
			out = append(out, ubzap.Reflect(k, v))
		default:
			out = append(out, ubzap.Any(k, v))
		}
	}
	return out
}

// sanitizingCore cleans messages and field values before the wrapped core encodes them.
type sanitizingCore struct {
	zapcore.Core
}

func (c sanitizingCore) With(fields []zapcore.Field) zapcore.Core {
	return sanitizingCore{Core: c.Core.With(sanitizeFields(fields))}
}

func (c sanitizingCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c sanitizingCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ent.Message = sanitization.Line(ent.Message)
	return c.Core.Write(ent, sanitizeFields(fields))
}

func sanitizeFields(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		out[i] = sanitizeField(f)
	}
	return out
}

func sanitizeField(f zapcore.Field) zapcore.Field {
	switch f.Type {
	case zapcore.StringType:
		return ubzap.Any(f.Key, sanitization.Value(f.Key, f.String))
	case zapcore.ReflectType, zapcore.StringerType, zapcore.ErrorType:
		return ubzap.Reflect(f.Key, sanitization.Value(f.Key, f.Interface))
	case zapcore.SkipType, zapcore.NamespaceType:
		return f
	}
	if sanitization.Redacts(f.Key) {
		return ubzap.String(f.Key, sanitization.Redacted)
	}
	return f
}
