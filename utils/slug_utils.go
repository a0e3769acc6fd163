package utils

import "strings"

const maxSlugLength = 100

// GenerateSlug turns a display name into a URL-safe slug: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, no leading or
// trailing hyphen, at most 100 characters.
func GenerateSlug(name string) string {
	name = strings.ToLower(name)

	var result strings.Builder
	lastHyphen := false
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9') {
			result.WriteRune(char)
			lastHyphen = false
		} else if !lastHyphen {
			result.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.Trim(result.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}

	return slug
}

// SanitizeAppName creates a valid hosting-platform project name from an app
// name: lowercase with every character outside [a-z0-9-] replaced by a hyphen.
func SanitizeAppName(appName string) string {
	name := strings.ToLower(appName)

	var result strings.Builder
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9') || char == '-' {
			result.WriteRune(char)
		} else {
			result.WriteByte('-')
		}
	}

	finalName := strings.Trim(result.String(), "-")
	if finalName == "" {
		finalName = "netpad-app"
	}

	return finalName
}
