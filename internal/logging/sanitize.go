package logging

import (
	"regexp"
	"strings"
)

// sensitivePatterns are applied to every string that reaches a log entry, in
// order. Each replacement is idempotent, so re-sanitizing an already clean
// string is a no-op.
var sensitivePatterns = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	// Email addresses
	{regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`), "[EMAIL]"},
	// Stripe-style API keys
	{regexp.MustCompile(`sk_(test|live)_[a-zA-Z0-9]{24,}`), "sk_${1}_[REDACTED]"},
	// Resend API keys
	{regexp.MustCompile(`re_[a-zA-Z0-9]{20,}`), "re_[REDACTED]"},
	// Bearer tokens
	{regexp.MustCompile(`(?i)Bearer\s+[a-zA-Z0-9\-._~+/]+=*`), "Bearer [REDACTED]"},
	// Phone numbers in common dashed/dotted/spaced formats. The trailing \b
	// keeps the rule off the head of longer digit runs (order IDs, hashes).
	{regexp.MustCompile(`(\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`), "[PHONE]"},
	// Database connection strings carrying credentials
	{regexp.MustCompile(`(?i)(postgres|mysql|mongodb)://[^:\s]+:[^@\s]+@`), "${1}://[REDACTED]@"},
	// password assignments in query strings and config dumps
	{regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s&]+`), "${1}=[REDACTED]"},
}

// sensitiveKeys makes a context key's entire value redacted when the key name
// contains one of these substrings, regardless of the value's content.
var sensitiveKeys = []string{
	"password",
	"passwd",
	"pwd",
	"apikey",
	"api_key",
	"token",
	"email",
	"phone",
	"ssn",
	"secret",
	"credential",
	"authorization",
}

const redactedPlaceholder = "[REDACTED]"

// SanitizeString masks emails, API keys, bearer tokens, phone numbers,
// database credentials and password assignments in the given string.
func SanitizeString(s string) string {
	for _, rule := range sensitivePatterns {
		s = rule.pattern.ReplaceAllString(s, rule.replacement)
	}
	return s
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, candidate := range sensitiveKeys {
		if strings.Contains(lower, candidate) {
			return true
		}
	}
	return false
}

// sanitizeContext returns a copy of the context with key-based redaction
// applied first, then pattern-based redaction on every remaining string value
// (including elements of string slices). Non-string values pass through.
func sanitizeContext(ctx Context) Context {
	sanitized := make(Context, len(ctx))
	for key, value := range ctx {
		if isSensitiveKey(key) {
			sanitized[key] = redactedPlaceholder
			continue
		}

		switch v := value.(type) {
		case string:
			sanitized[key] = SanitizeString(v)
		case []string:
			items := make([]string, len(v))
			for i, item := range v {
				items[i] = SanitizeString(item)
			}
			sanitized[key] = items
		case []interface{}:
			items := make([]interface{}, len(v))
			for i, item := range v {
				if s, ok := item.(string); ok {
					items[i] = SanitizeString(s)
				} else {
					items[i] = item
				}
			}
			sanitized[key] = items
		default:
			sanitized[key] = value
		}
	}
	return sanitized
}
