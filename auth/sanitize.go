package auth

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// SanitizeUsername removes any HTML and trims whitespace from username
func SanitizeUsername(username string) string {
	cleaned := policy.Sanitize(username)
	return strings.TrimSpace(cleaned)
}

// SanitizeText strips HTML from user-supplied free text (titles, summaries,
// campaign descriptions) before it is stored.
func SanitizeText(input string) string {
	cleaned := policy.Sanitize(input)
	return strings.TrimSpace(cleaned)
}
