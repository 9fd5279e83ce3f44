package utils

import "github.com/microcosm-cc/bluemonday"

// Goals and diary entries are plain text, so the strict policy strips all
// markup rather than allowing a UGC subset.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize removes any HTML from user-authored text.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
