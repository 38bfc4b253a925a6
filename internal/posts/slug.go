package posts

import (
	"regexp"
	"strings"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	slugSplitter = regexp.MustCompile(`[^a-z0-9]+`)
)

// ValidSlug reports whether s is lowercase alphanumerics separated by single hyphens
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Slugify derives a valid slug from free text, or "" when s has no ASCII
// letters or digits
func Slugify(s string) string {
	return strings.Trim(slugSplitter.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
