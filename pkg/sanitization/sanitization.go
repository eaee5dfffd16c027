// Package sanitization keeps credentials and control characters out of log lines
// and notifications.
package sanitization

import (
	"fmt"
	"strings"
	"unicode"
)

// Redacted replaces values that must never be written.
const Redacted = "[REDACTED]"

type rule int

const (
	keep rule = iota
	redact
	maskTail
)

var keyRules = map[string]rule{
	"password":              redact,
	"private_key":           redact,
	"authorization":         redact,
	"aws_secret_access_key": redact,
	"aws_session_token":     redact,

	"aws_access_key_id":   maskTail,
	"access_key_id":       maskTail,
	"account":             maskTail,
	"account_id":          maskTail,
	"aws_account_id":      maskTail,
	"cdk_default_account": maskTail,
}

// Keys containing one of these are redacted even when no exact rule exists.
var redactedSubstrings = []string{"secret", "token", "password", "credential"}

func ruleFor(key string) rule {
	key = strings.ToLower(strings.TrimSpace(key))
	if r, ok := keyRules[key]; ok {
		return r
	}
	for _, s := range redactedSubstrings {
		if strings.Contains(key, s) {
			return redact
		}
	}
	return keep
}

// Redacts reports whether values logged under key are hidden or masked.
func Redacts(key string) bool {
	return ruleFor(key) != keep
}

// Line drops control characters other than tab, so a value cannot forge extra log lines.
func Line(s string) string {
	return strings.Map(func(r rune) rune {
		if r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Value returns what may be logged for value under key.
//
// Strings are cleaned with Line; slices and maps are walked, with map keys
// applying their own rules. Account ids keep their last four digits.
func Value(key string, value any) any {
	switch ruleFor(key) {
	case redact:
		return Redacted
	case maskTail:
		return mask(fmt.Sprint(value))
	}
	return clean(value)
}

func clean(value any) any {
	switch v := value.(type) {
	case nil, bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return v
	case string:
		return Line(v)
	case []byte:
		return Line(string(v))
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = Line(s)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = clean(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Value(k, item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Value(k, item)
		}
		return out
	default:
		return Line(fmt.Sprint(v))
	}
}

func mask(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case len(s) <= 4:
		return Redacted
	case strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) == -1:
		return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
	default:
		return "..." + s[len(s)-4:]
	}
}
