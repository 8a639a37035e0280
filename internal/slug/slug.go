// Package slug normalises store names and page slugs into URL-safe form.
package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace      = regexp.MustCompile(`\s+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Summer Sale! 2026" -> "summer-sale-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// IsStoreName reports whether s can be used as a store name: a non-empty
// slug that starts with a letter, so it never collides with numeric ids in
// routes that accept either.
func IsStoreName(s string) bool {
	if s == "" || s != Generate(s) {
		return false
	}
	return s[0] >= 'a' && s[0] <= 'z'
}
