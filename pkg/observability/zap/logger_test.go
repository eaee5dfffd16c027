package zap

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/theory-cloud/sitetheory/pkg/observability"
)

type bufferSyncer struct {
	bytes.Buffer
}

func (b *bufferSyncer) Sync() error { return nil }

func TestLogger_SanitizesMessageAndFields(t *testing.T) {
	rec := NewRecorder()

	rec.Info("declared\r\nbucket", map[string]any{
		"aws_secret_access_key": "wJalrXUtnFEMI",
		"bucket_name":           "code-adjacent-dumbelf\r\n",
		"account":               "123456789012",
		"account_id":            123456789012,
		"aliases":               []string{"www.code-adjacent.com\n", "code-adjacent.com"},
		"error":                 errors.New("boom\nforged"),
	})

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "declaredbucket", entries[0].Message)
	assert.Equal(t, map[string]any{
		"aws_secret_access_key": "[REDACTED]",
		"bucket_name":           "code-adjacent-dumbelf",
		"account":               "********9012",
		"account_id":            "[REDACTED]",
		"aliases":               []string{"www.code-adjacent.com", "code-adjacent.com"},
		"error":                 "boomforged",
	}, entries[0].Fields)
}

func TestLogger_ScopedFieldsAreSanitized(t *testing.T) {
	rec := NewRecorder()

	scoped := rec.WithFields(map[string]any{"session_token": "abc", "k": "base"}).
		WithStack("code-adjacent-site-live").
		WithConstruct("code-adjacent-site-live/SiteDistribution\n")
	scoped.Debug("resource declared", map[string]any{"k": "call"})
	scoped.Error("synth failed")

	declared := rec.EntriesWithMessage("resource declared")
	require.Len(t, declared, 1)
	assert.Equal(t, "debug", declared[0].Level)
	assert.Equal(t, "code-adjacent-site-live", declared[0].Stack)
	assert.Equal(t, "code-adjacent-site-live/SiteDistribution", declared[0].Construct)
	assert.Equal(t, "[REDACTED]", declared[0].Fields["session_token"])
	assert.NotContains(t, declared[0].Fields, observability.StackKey)

	failed := rec.EntriesWithMessage("synth failed")
	require.Len(t, failed, 1)
	assert.Equal(t, "error", failed[0].Level)
	assert.Len(t, rec.Entries(), 2)
}

func TestLogger_LaterFieldSetsWin(t *testing.T) {
	rec := NewRecorder()
	rec.Warn("dup", map[string]any{"k": 1}, map[string]any{"k": 2})

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].Fields["k"])
}

func TestNew_Encoders(t *testing.T) {
	var jsonOut bufferSyncer
	log, err := New(observability.LoggerConfig{Format: "json", Level: "debug"}, WithOutput(&jsonOut))
	require.NoError(t, err)
	log.WithStack("site").Debug("synth", map[string]any{"password": "hunter2"})
	require.NoError(t, log.Sync())
	assert.Contains(t, jsonOut.String(), `"message":"synth"`)
	assert.Contains(t, jsonOut.String(), `"level":"debug"`)
	assert.Contains(t, jsonOut.String(), `"stack":"site"`)
	assert.NotContains(t, jsonOut.String(), "hunter2")

	var consoleOut bufferSyncer
	log, err = New(observability.LoggerConfig{Format: "console", Level: "warn"}, WithOutput(&consoleOut))
	require.NoError(t, err)
	log.Info("filtered")
	log.Warn("kept")
	assert.NotContains(t, consoleOut.String(), "filtered")
	assert.Contains(t, consoleOut.String(), "kept")
}

func TestNew_CallerPointsAtCallSite(t *testing.T) {
	var out bufferSyncer
	log, err := New(observability.LoggerConfig{Format: "json", Caller: true}, WithOutput(&out))
	require.NoError(t, err)
	log.Info("here")
	assert.Contains(t, out.String(), "logger_test.go")
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(observability.LoggerConfig{Format: "xml"})
	require.ErrorContains(t, err, "unsupported log format")

	_, err = New(observability.LoggerConfig{Level: "trace"})
	require.Error(t, err)
}

func TestNew_FormatFollowsCI(t *testing.T) {
	t.Setenv("CI", "true")
	var out bufferSyncer
	log, err := New(observability.LoggerConfig{}, WithOutput(&out))
	require.NoError(t, err)
	log.Info("synth")
	assert.Contains(t, out.String(), `"message":"synth"`)

	t.Setenv("CI", "")
	t.Setenv("CODEBUILD_BUILD_ID", "")
	t.Setenv("GITHUB_ACTIONS", "")
	assert.False(t, isCI())
}

func TestConfigFromEnv(t *testing.T) {
	env := map[string]string{
		"SITETHEORY_LOG_LEVEL":  " ",
		"LOG_LEVEL":             "debug",
		"SITETHEORY_LOG_FORMAT": "json",
		"LOG_FORMAT":            "console",
		"LOG_CALLER":            "TRUE",
	}
	cfg := ConfigFromEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	assert.Equal(t, observability.LoggerConfig{Level: "debug", Format: "json", Caller: true}, cfg)
}

func TestNop(t *testing.T) {
	log := Nop()
	log.WithStack("site").WithConstruct("site/SiteBucket").Error("dropped")
	require.NoError(t, log.Sync())
}

func TestSanitizeField_PassesNonSensitiveScalars(t *testing.T) {
	f := zapcore.Field{Key: "error_response_code", Type: zapcore.Int64Type, Integer: 200}
	assert.Equal(t, f, sanitizeField(f))
}
