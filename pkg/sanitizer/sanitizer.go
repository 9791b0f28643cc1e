// Package sanitizer normalizes free-text values arriving from channel
// manager payloads before they reach validation or persistence.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses internal whitespace
// runs to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeGuestName joins the given and family name parts, dropping
// empty parts so a missing surname does not leave a trailing space.
func NormalizeGuestName(given, family string) string {
	parts := make([]string, 0, 2)
	if g := TrimAndNormalize(given); g != "" {
		parts = append(parts, g)
	}
	if f := TrimAndNormalize(family); f != "" {
		parts = append(parts, f)
	}
	return strings.Join(parts, " ")
}

// Digits strips every non-digit rune. Phone numbers are stored
// digits-only; separators and country-code prefixes vary per channel.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
