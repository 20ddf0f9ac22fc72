package validate

import (
	"strings"
	"unicode"
)

// SanitizeDescription cleans a description for safe storage.
func SanitizeDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	desc = strings.ReplaceAll(desc, "\x00", "")
	desc = strings.ReplaceAll(desc, "\r\n", "\n")
	desc = strings.ReplaceAll(desc, "\r", "\n")
	return desc
}

// SanitizeCategoryName trims whitespace and strips control characters.
func SanitizeCategoryName(name string) string {
	name = strings.TrimSpace(name)

	var sb strings.Builder
	for _, r := range name {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// TruncateString truncates a string to the given length, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
