package zap

import (
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/theory-cloud/sitetheory/pkg/observability"
)

// Recorder is a debug-level Logger that keeps entries in memory.
type Recorder struct {
	*Logger

	logs *observer.ObservedLogs
}

func NewRecorder() *Recorder {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Recorder{Logger: newLogger(core), logs: logs}
}

// Entries returns everything written so far, oldest first.
func (r *Recorder) Entries() []observability.LogEntry {
	return toEntries(r.logs.All())
}

func (r *Recorder) EntriesWithMessage(message string) []observability.LogEntry {
	return toEntries(r.logs.FilterMessage(message).All())
}

func toEntries(logged []observer.LoggedEntry) []observability.LogEntry {
	out := make([]observability.LogEntry, 0, len(logged))
	for _, e := range logged {
		fields := e.ContextMap()
		entry := observability.LogEntry{
			Level:   e.Level.String(),
			Message: e.Message,
			Fields:  fields,
		}
		entry.Stack, _ = fields[observability.StackKey].(string)
		entry.Construct, _ = fields[observability.ConstructKey].(string)
		delete(fields, observability.StackKey)
		delete(fields, observability.ConstructKey)
		out = append(out, entry)
	}
	return out
}
