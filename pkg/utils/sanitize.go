package utils

import (
	"strings"
)

// EscapeSQLWildcards escapes LIKE wildcard characters in user input.
// Queries using it must declare ESCAPE '\'.
func EscapeSQLWildcards(input string) string {
	// Escape backslash first (as it's the escape character)
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// SanitizeSearchQuery prepares a lower-cased search string for LIKE usage,
// wrapped with % for partial matching
func SanitizeSearchQuery(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	// Limit length to prevent DoS
	input = TruncateString(input, 100)
	return "%" + EscapeSQLWildcards(input) + "%"
}

// IsBlank reports whether s is empty after trimming whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// TruncateString truncates a string to max length in runes
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}
