package apperr

import (
	"regexp"
	"strings"
)

// sensitiveFields are key names whose values must never reach log output.
var sensitiveFields = []string{"password", "token", "secret", "email", "authorization"}

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|token|secret|api[_-]?key)\s*[=:]\s*\S+`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/-]+=*`),
}

// Sanitize masks credential-looking substrings in a message before logging.
func Sanitize(message string) string {
	out := message
	for _, pattern := range sensitivePatterns {
		out = pattern.ReplaceAllStringFunc(out, func(match string) string {
			if idx := strings.IndexAny(match, "=: "); idx >= 0 {
				return match[:idx+1] + "[REDACTED]"
			}
			return "[REDACTED]"
		})
	}
	return out
}

// SanitizeFields removes sensitive keys from a structured log payload.
func SanitizeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		lower := strings.ToLower(key)
		redacted := false
		for _, name := range sensitiveFields {
			if strings.Contains(lower, name) {
				redacted = true
				break
			}
		}
		if redacted {
			out[key] = "[REDACTED]"
			continue
		}
		if s, ok := value.(string); ok {
			out[key] = Sanitize(s)
		} else {
			out[key] = value
		}
	}
	return out
}
