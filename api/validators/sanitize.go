package validators

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeString drops control characters, trims the result and caps it at
// maxLen runes. A cut never splits a multi-byte character.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input))
	if maxLen <= 0 || utf8.RuneCountInString(cleaned) <= maxLen {
		return cleaned
	}
	return strings.TrimSpace(string([]rune(cleaned)[:maxLen]))
}
