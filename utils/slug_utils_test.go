package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Contact Us", "contact-us"},
		{"already a slug", "contact-us", "contact-us"},
		{"punctuation collapses", "My Örg Form!!", "my-rg-form"},
		{"leading and trailing symbols", "  --Hello--  ", "hello"},
		{"consecutive separators", "a__b  c", "a-b-c"},
		{"digits survive", "Form 2024 v2", "form-2024-v2"},
		{"empty input", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateSlug(tt.input))
		})
	}
}

func TestGenerateSlugTruncation(t *testing.T) {
	long := strings.Repeat("a", 150)
	slug := GenerateSlug(long)
	assert.Len(t, slug, 100)

	// Truncation must not leave a trailing hyphen
	boundary := strings.Repeat("ab ", 40) // hyphen lands near position 100
	slug = GenerateSlug(boundary)
	assert.LessOrEqual(t, len(slug), 100)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestSanitizeAppName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "myapp", "myapp"},
		{"spaces and case", "My App", "my-app"},
		{"punctuation", "café.app!", "caf--app"},
		{"hyphens kept", "my-app-2", "my-app-2"},
		{"trimmed", "--app--", "app"},
		{"empty falls back", "", "netpad-app"},
		{"only symbols falls back", "!!!", "netpad-app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeAppName(tt.input))
		})
	}
}
