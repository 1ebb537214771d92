package shared

import (
	"strings"
	"unicode/utf8"
)

// ═══════════════════════════════════════════════════════════════════════════
// Identifier helpers
// ═══════════════════════════════════════════════════════════════════════════

// RequireID returns a validation error when a mandatory reference is blank.
func RequireID(domain, op, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Validation(domain, op, "%s is required", field)
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Text helpers
// ═══════════════════════════════════════════════════════════════════════════

// RuneLen returns the number of characters in s after trimming surrounding
// whitespace. Limits on user text are counted in characters, not bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// FoldKey normalizes a code for case-insensitive comparison.
func FoldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
