package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeWhitespace collapses multiple spaces into one
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateText truncates text to max runes with ellipsis
func TruncateText(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// Humanize turns an identifier or file stem such as "contact_email-2" into
// "Contact email 2". Separators become spaces and only the first word is
// capitalized.
func Humanize(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case r == '-' || r == '_' || r == '.' || r == '+' || unicode.IsSpace(r):
			b.WriteRune(' ')
			prevLower = false
		case unicode.IsUpper(r) && prevLower:
			// split camelCase
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r)
		}
	}

	words := strings.Fields(b.String())
	if len(words) == 0 {
		return ""
	}
	words[0] = titleWord(words[0])
	return strings.Join(words, " ")
}

// Capitalize upper-cases the first letter of s and leaves the rest alone
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	first := strings.Fields(s)[0]
	return titleWord(first) + s[len(first):]
}

// titleWord capitalizes one word. Casers are stateful, so each call gets its own.
func titleWord(w string) string {
	return cases.Title(language.English, cases.NoLower).String(w)
}

// Deduplicate removes duplicate strings while preserving order
func Deduplicate(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
