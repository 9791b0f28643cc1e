package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "John Smith", "John Smith"},
		{"surrounding whitespace", "  John Smith \n", "John Smith"},
		{"internal runs", "John \t  Smith", "John Smith"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimAndNormalize(tt.input))
		})
	}
}

func TestNormalizeGuestName(t *testing.T) {
	assert.Equal(t, "John Smith", NormalizeGuestName(" John ", "Smith"))
	assert.Equal(t, "John", NormalizeGuestName("John", ""))
	assert.Equal(t, "Smith", NormalizeGuestName("", "Smith"))
	assert.Equal(t, "", NormalizeGuestName("  ", ""))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "61298765432", Digits("+61 (2) 9876-5432"))
	assert.Equal(t, "", Digits("no digits here"))
	assert.Equal(t, "12345", Digits("12345"))
}
