package logger

import (
	"strings"
	"unicode"
)

var sensitiveKeys = []string{
	"phone",
	"password",
	"secret",
	"token",
	"authorization",
}

// MaskPhone hides all but the last four digits of a phone number,
// keeping separators so the shape stays recognizable in logs.
func MaskPhone(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	digits := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	keep := 4
	if digits <= keep {
		keep = 0
	}

	seen := 0
	out := make([]rune, 0, len(value))
	for _, r := range value {
		if !unicode.IsDigit(r) {
			out = append(out, r)
			continue
		}
		seen++
		if seen > digits-keep {
			out = append(out, r)
		} else {
			out = append(out, '*')
		}
	}
	return string(out)
}

// MaskJSON returns a deep-copied map with sensitive fields masked.
func MaskJSON(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		if isSensitiveKey(key) {
			out[key] = maskValue(value)
			continue
		}
		out[key] = maskJSONValue(value)
	}
	return out
}

func maskJSONValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return MaskJSON(typed)
	case []any:
		items := make([]any, 0, len(typed))
		for _, entry := range typed {
			items = append(items, maskJSONValue(entry))
		}
		return items
	default:
		return value
	}
}

func maskValue(value any) any {
	switch typed := value.(type) {
	case string:
		return MaskPhone(typed)
	case []byte:
		return MaskPhone(string(typed))
	default:
		return "****"
	}
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, needle := range sensitiveKeys {
		if strings.Contains(key, needle) {
			return true
		}
	}
	return false
}
