// Package observability defines the logging surface shared by the stack builders and commands.
package observability

// Field keys that scope a logger to the stack and construct being declared.
const (
	StackKey     = "stack"
	ConstructKey = "construct"
)

// StructuredLogger logs messages with map fields.
type StructuredLogger interface {
	Debug(message string, fields ...map[string]any)
	Info(message string, fields ...map[string]any)
	Warn(message string, fields ...map[string]any)
	Error(message string, fields ...map[string]any)

	WithFields(fields map[string]any) StructuredLogger
	WithStack(stack string) StructuredLogger
	WithConstruct(path string) StructuredLogger

	Sync() error
}

// LogEntry is one recorded message, with the stack and construct scope split out of Fields.
type LogEntry struct {
	Level     string
	Message   string
	Fields    map[string]any
	Stack     string
	Construct string
}

// LoggerConfig selects level, encoding and caller annotation.
//
// An empty Format means json in CI and console elsewhere.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Caller bool   `yaml:"caller"`
}
